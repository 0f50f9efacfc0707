package playbook

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// ReflectionSchema returns the JSON schema the reflector agent's structured
// output must satisfy. Definitions are inlined so the schema can be embedded
// directly in a prompt or tool description.
func ReflectionSchema() json.RawMessage {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}

	schema := reflector.Reflect(Reflection{})
	data, err := json.Marshal(schema)
	if err != nil {
		// Reflection is a static type; marshaling its schema cannot fail.
		panic(fmt.Sprintf("failed to generate reflection schema: %v", err))
	}
	return json.RawMessage(data)
}
