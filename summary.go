package mgclient

import (
	"time"

	"github.com/mitchellh/mapstructure"
)

// Native exports a Value into plain Go data: nil, bool, int64,
// float64, string, []any, map[string]any, time.Duration, and the
// temporal, spatial and graph structs as themselves.
func Native(v Value) any {
	switch t := v.(type) {
	case Null:
		return nil
	case Bool:
		return bool(t)
	case Int:
		return int64(t)
	case Float:
		return float64(t)
	case String:
		return string(t)
	case List:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Native(item)
		}
		return out
	case Map:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Native(item)
		}
		return out
	case Duration:
		return time.Duration(t)
	default:
		return v
	}
}

// SummaryInfo is a typed view of the execution summary the server
// attaches to the end of a result stream. Fields the server did not
// send keep their zero value.
type SummaryInfo struct {
	// Type classifies the query: "r", "w", "rw" or "s".
	Type    string `mapstructure:"type"`
	HasMore bool   `mapstructure:"has_more"`

	// Times are reported in seconds.
	ParsingTime       float64 `mapstructure:"parsing_time"`
	PlanningTime      float64 `mapstructure:"planning_time"`
	PlanExecutionTime float64 `mapstructure:"plan_execution_time"`

	Stats QueryStats `mapstructure:"stats"`
}

// QueryStats counts the write effects of a query.
type QueryStats struct {
	NodesCreated         int64 `mapstructure:"nodes-created"`
	NodesDeleted         int64 `mapstructure:"nodes-deleted"`
	RelationshipsCreated int64 `mapstructure:"relationships-created"`
	RelationshipsDeleted int64 `mapstructure:"relationships-deleted"`
	PropertiesSet        int64 `mapstructure:"properties-set"`
	LabelsAdded          int64 `mapstructure:"labels-added"`
	LabelsRemoved        int64 `mapstructure:"labels-removed"`
}

func decodeSummaryInfo(summary map[string]Value) (*SummaryInfo, error) {
	native := make(map[string]any, len(summary))
	for k, v := range summary {
		native[k] = Native(v)
	}
	var info SummaryInfo
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &info,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(native); err != nil {
		return nil, err
	}
	return &info, nil
}
