package mgclient_test

import (
	"fmt"
	"log"

	mgclient "github.com/memgraph/mgclient-go"
)

func Example() {
	conn, err := mgclient.Connect(&mgclient.ConnectParams{
		Host:       "localhost",
		SSLMode:    mgclient.SSLModeDisable,
		Autocommit: true,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if _, err := conn.Execute("UNWIND range(1, 3) AS n RETURN n * n", nil); err != nil {
		log.Fatal(err)
	}
	records, err := conn.FetchAll()
	if err != nil {
		log.Fatal(err)
	}
	for _, rec := range records {
		fmt.Println(rec.Values[0])
	}
}

func ExampleConnection_Execute() {
	conn, err := mgclient.Connect(&mgclient.ConnectParams{
		Host:       "localhost",
		SSLMode:    mgclient.SSLModeDisable,
		Autocommit: true,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	columns, err := conn.Execute(
		"MATCH (p:Person) WHERE p.age > $age RETURN p.name, p.age",
		mgclient.Params{"age": 21},
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(columns)

	records, err := conn.FetchAll()
	if err != nil {
		log.Fatal(err)
	}
	for _, rec := range records {
		fmt.Printf("%s is %s\n", rec.Values[0], rec.Values[1])
	}
}

func ExampleConnection_FetchOne() {
	// With Lazy set, rows cross the wire one at a time as they are
	// fetched, so huge results never sit in memory at once.
	conn, err := mgclient.Connect(&mgclient.ConnectParams{
		Host:       "localhost",
		SSLMode:    mgclient.SSLModeDisable,
		Autocommit: true,
		Lazy:       true,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if _, err := conn.Execute("MATCH (n) RETURN n", nil); err != nil {
		log.Fatal(err)
	}
	for {
		rec, err := conn.FetchOne()
		if err != nil {
			log.Fatal(err)
		}
		if rec == nil {
			break
		}
		fmt.Println(rec.Values[0])
	}
}

func ExampleConnection_Commit() {
	conn, err := mgclient.Connect(&mgclient.ConnectParams{
		Host:    "localhost",
		SSLMode: mgclient.SSLModeDisable,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// With autocommit off, the first Execute opens a transaction that
	// stays open until Commit or Rollback.
	if _, err := conn.Execute("CREATE (:Person {name: 'Alice'})", nil); err != nil {
		log.Fatal(err)
	}
	if _, err := conn.FetchAll(); err != nil {
		log.Fatal(err)
	}
	if err := conn.Commit(); err != nil {
		log.Fatal(err)
	}
}

func ExampleCursor() {
	conn, err := mgclient.Connect(&mgclient.ConnectParams{
		Host:       "localhost",
		SSLMode:    mgclient.SSLModeDisable,
		Autocommit: true,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	cur := conn.Cursor()
	defer cur.Close()

	if err := cur.Execute("UNWIND range(1, 10) AS n RETURN n", nil); err != nil {
		log.Fatal(err)
	}
	for {
		batch, err := cur.FetchMany(3)
		if err != nil {
			log.Fatal(err)
		}
		if len(batch) == 0 {
			break
		}
		fmt.Printf("batch of %d, last row %d\n", len(batch), cur.Rownumber())
	}
}
