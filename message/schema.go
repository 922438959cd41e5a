package message

import (
	"github.com/invopop/jsonschema"
)

// Schema returns a JSON Schema describing every wire message.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		Anonymous:                 true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}

	kinds := []Message{UserQuery{}, AssistantMessage{}, LoadingState{}, Error{}}
	root := &jsonschema.Schema{
		Version:     jsonschema.Version,
		ID:          "https://github.com/randalmurphal/promptpad/message",
		Title:       "promptpad panel message",
		Description: "Messages exchanged between the input panel and the host.",
	}
	for _, k := range kinds {
		s := r.Reflect(k)
		s.Version = ""
		s.Title = k.Command()
		if s.Properties != nil {
			s.Properties.Set("command", &jsonschema.Schema{
				Type:  "string",
				Const: k.Command(),
			})
		}
		s.Required = append([]string{"command"}, s.Required...)
		root.OneOf = append(root.OneOf, s)
	}
	return root
}
