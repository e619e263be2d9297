// Package mgclient provides a Bolt session client for the Memgraph
// graph database.
//
// A Connection drives one session: queries go in through Execute, rows
// come back through FetchOne, FetchMany and FetchAll, and transactions
// are controlled with Commit and Rollback. Unless autocommit is
// enabled, the first Execute opens a transaction implicitly. Results
// stream on demand in lazy mode (the default) or are buffered whole by
// Execute in eager mode.
//
// Quick start:
//
//	conn, err := mgclient.Connect(&mgclient.ConnectParams{
//		Host:    "localhost",
//		SSLMode: mgclient.SSLModeDisable,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer conn.Close()
//
//	_, err = conn.Execute("CREATE (n:Person {name: $name}) RETURN n",
//		mgclient.Params{"name": "Alice"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for {
//		record, err := conn.FetchOne()
//		if err != nil {
//			log.Fatal(err)
//		}
//		if record == nil {
//			break
//		}
//		fmt.Println(record.Values[0])
//	}
//	if err := conn.Commit(); err != nil {
//		log.Fatal(err)
//	}
//
// Result values use the types in this package: scalars, List and Map,
// the temporal and spatial kinds, and the graph kinds Node,
// Relationship, UnboundRelationship and Path. Parameters accept plain
// Go values and the same kinds, except graph values and DateTime,
// which only travel from server to client.
//
// A Connection is not safe for concurrent use. Use one connection per
// goroutine or serialize access externally.
package mgclient
