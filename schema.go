package disclosure

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/execution.json
var executionSchemaJSON []byte

var executionSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(executionSchemaJSON))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("execution.json", doc); err != nil {
		return nil, err
	}
	return c.Compile("execution.json")
})

// ValidateExecutionDocument checks that doc has the shape of an execution
// document: an object whose calls map task names to arrays of shard records
// with correctly typed fields. Unknown fields are allowed. A violation is
// returned as an *Error with code ErrMalformedDocument whose Fragment is the
// provenance of the offending value.
func ValidateExecutionDocument(doc Value) error {
	schema, err := executionSchema()
	if err != nil {
		return fmt.Errorf("disclosure: compile execution schema: %w", err)
	}
	err = schema.Validate(doc.Interface())
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &Error{Code: ErrMalformedDocument, Message: "execution document does not match schema", Offset: -1, Cause: err}
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	at := provenance(doc, leaf.InstanceLocation)
	e := malformed(at, "execution document does not match schema at %s", describeAt(at))
	e.Cause = err
	return e
}

// provenance renders a JSON pointer location within doc the way evaluation
// results do: fields joined with '.', array positions as "[n]".
func provenance(doc Value, loc []string) string {
	at, cur := "", doc
	for _, tok := range loc {
		if cur.Kind() == KindArray {
			n, err := strconv.Atoi(tok)
			if err != nil {
				break
			}
			at = joinIndex(at, n)
			cur, _ = cur.Index(n)
			continue
		}
		at = joinField(at, tok)
		cur, _ = cur.Get(tok)
	}
	return at
}
