package query_test

import (
	"fmt"
	"log"

	"github.com/creachadair/jsm"
	"github.com/creachadair/jsm/ast"
	"github.com/creachadair/jsm/query"
)

func mustParseOne(s string) ast.Value {
	v, err := jsm.ReadString(s)
	if err != nil {
		log.Fatalf("Parse: %v", err)
	}
	return v
}

func mustJSON(v ast.Value) string {
	s, err := jsm.ToString(v, jsm.FormatOptions{})
	if err != nil {
		log.Fatalf("Format: %v", err)
	}
	return s
}

func Example_small() {
	root := mustParseOne(`[{"a": 1, "b": 2}, {"c": {"d": true}, "e": false}]`)
	v, err := query.Eval(root, query.Path(1, "c", "d"))
	if err != nil {
		log.Fatalf("Eval: %v", err)
	}
	fmt.Println(mustJSON(v))
	// Output:
	// true
}

func Example_medium() {
	root := mustParseOne(`
{
  "plaintiff": "Inigo Montoya",
  "complaint": {
     "defendant": "you",
     "action": "killed",
     "target": "Individual 1"
  },
  "requestedRelief": ["die", "pay punitive damages", "pay attorney fees"],
  "relatedPersons": {
    "Individual 1": {"id": "father", "rel": "plaintiff"}
  }
}`)

	v, err := query.Eval(root, query.Object{
		"name": query.Path("plaintiff"),
		"act": query.Array{
			query.Path("complaint", "defendant"),
			query.Path("complaint", "action"),
			query.String("my"),
			query.Path("relatedPersons", "Individual 1", "id"),
		},
		"req": query.Path("requestedRelief", 0),
	})
	if err != nil {
		log.Fatalf("Eval: %v", err)
	}
	obj := v.(*ast.Object)
	name, _ := obj.Get("name")
	act, _ := obj.Get("act")
	req, _ := obj.Get("req")
	fmt.Printf("Hello, my name is: %s\n", name)
	fmt.Println(mustJSON(act))
	fmt.Printf("Prepare to %s", req)
	// Output:
	// Hello, my name is: Inigo Montoya
	// ["you","killed","my","father"]
	// Prepare to die
}
