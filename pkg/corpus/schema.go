package corpus

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// MetadataSchema returns the JSON schema of the frontmatter convention, so
// external harnesses can validate skill files without this tool.
func MetadataSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&Metadata{})
	schema.Title = "Skill document frontmatter"
	schema.Description = "YAML frontmatter carried by skill files, agent templates, and stack indexes"
	return schema
}

// MetadataSchemaJSON returns the frontmatter schema as indented JSON
func MetadataSchemaJSON() (string, error) {
	data, err := json.MarshalIndent(MetadataSchema(), "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal frontmatter schema")
	}
	return string(data), nil
}
