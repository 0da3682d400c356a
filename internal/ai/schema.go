// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

// Schema mirrors the Gemini responseSchema format used to constrain model
// output to structured JSON. Only the subset of fields this service needs
// is modelled.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// Schema type constants, matching the Gemini API's Type enum.
const (
	TypeObject = "OBJECT"
	TypeArray  = "ARRAY"
	TypeString = "STRING"
	TypeNumber = "NUMBER"
)

// Object builds an OBJECT schema with every property required, which is
// how the audit response schema declares its fields.
func Object(props map[string]*Schema) *Schema {
	s := &Schema{Type: TypeObject, Properties: props}
	for name := range props {
		s.Required = append(s.Required, name)
	}
	return s
}

// Array builds an ARRAY schema of the given item type.
func Array(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

// Number returns a NUMBER schema.
func Number() *Schema { return &Schema{Type: TypeNumber} }

// String returns a STRING schema.
func String() *Schema { return &Schema{Type: TypeString} }
