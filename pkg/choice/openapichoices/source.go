// Package openapichoices reads choice lists from enum schemas in OpenAPI
// documents.
package openapichoices

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	// ErrOperationNotFound is returned when no operation carries the requested id.
	ErrOperationNotFound = errors.New("openapichoices: operation not found")
	// ErrPropertyNotFound is returned when the request body has no such property.
	ErrPropertyNotFound = errors.New("openapichoices: property not found")
	// ErrNoEnum is returned when the property (or its items) declares no enum.
	ErrNoEnum = errors.New("openapichoices: property has no enum")
)

// LabelsExtension names the schema extension holding display labels, in the
// same order as the enum values.
const LabelsExtension = "x-enum-labels"

// Choice is one enum value with its optional display label.
type Choice struct {
	Value string
	Label string
}

// Display returns the label, or the value when no label is declared.
func (c Choice) Display() string {
	if strings.TrimSpace(c.Label) != "" {
		return c.Label
	}
	return c.Value
}

// Source is a loaded OpenAPI document.
type Source struct {
	doc *openapi3.T
}

// Load parses an OpenAPI document. External references are not followed.
func Load(ctx context.Context, data []byte) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("openapichoices: document payload is empty")
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: false,
	}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapichoices: load document: %w", err)
	}
	return &Source{doc: doc}, nil
}

// OperationIDs lists every operation id in the document, sorted.
func (s *Source) OperationIDs() []string {
	var ids []string
	s.eachOperation(func(op *openapi3.Operation) bool {
		if op.OperationID != "" {
			ids = append(ids, op.OperationID)
		}
		return true
	})
	sort.Strings(ids)
	return ids
}

// Choices returns the enum of a request-body property of operationID. The
// property may be a dotted path into nested objects. Array properties yield
// the enum of their items.
func (s *Source) Choices(operationID, property string) ([]Choice, error) {
	operation := s.operation(operationID)
	if operation == nil {
		return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	schema := requestSchema(operation.RequestBody)
	for _, segment := range strings.Split(strings.TrimSpace(property), ".") {
		if schema == nil || schema.Properties == nil {
			schema = nil
			break
		}
		ref, ok := schema.Properties[segment]
		if !ok || ref == nil || ref.Value == nil {
			schema = nil
			break
		}
		schema = ref.Value
	}
	if schema == nil || strings.TrimSpace(property) == "" {
		return nil, fmt.Errorf("%w: %q in %q", ErrPropertyNotFound, property, operationID)
	}

	if len(schema.Enum) == 0 && schema.Items != nil && schema.Items.Value != nil {
		schema = schema.Items.Value
	}
	if len(schema.Enum) == 0 {
		return nil, fmt.Errorf("%w: %q in %q", ErrNoEnum, property, operationID)
	}

	labels := enumLabels(schema.Extensions)
	choices := make([]Choice, 0, len(schema.Enum))
	for i, value := range schema.Enum {
		choice := Choice{Value: fmt.Sprint(value)}
		if i < len(labels) {
			choice.Label = labels[i]
		}
		choices = append(choices, choice)
	}
	return choices, nil
}

// EnumChoices loads data and returns the enum values of a request-body
// property as strings.
func EnumChoices(ctx context.Context, data []byte, operationID, property string) ([]string, error) {
	source, err := Load(ctx, data)
	if err != nil {
		return nil, err
	}
	choices, err := source.Choices(operationID, property)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(choices))
	for i, choice := range choices {
		values[i] = choice.Value
	}
	return values, nil
}

func (s *Source) operation(id string) *openapi3.Operation {
	var found *openapi3.Operation
	s.eachOperation(func(op *openapi3.Operation) bool {
		if op.OperationID == id {
			found = op
			return false
		}
		return true
	})
	return found
}

func (s *Source) eachOperation(fn func(*openapi3.Operation) bool) {
	if s == nil || s.doc == nil || s.doc.Paths == nil {
		return
	}
	paths := s.doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for key := range paths {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		item := paths[key]
		if item == nil {
			continue
		}
		for _, op := range []*openapi3.Operation{item.Get, item.Put, item.Post, item.Delete, item.Patch, item.Head, item.Options, item.Trace} {
			if op == nil {
				continue
			}
			if !fn(op) {
				return
			}
		}
	}
}

func requestSchema(requestBody *openapi3.RequestBodyRef) *openapi3.Schema {
	if requestBody == nil || requestBody.Value == nil {
		return nil
	}
	content := requestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func enumLabels(extensions map[string]any) []string {
	raw, ok := extensions[LabelsExtension]
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	labels := make([]string, len(items))
	for i, item := range items {
		if item != nil {
			labels[i] = fmt.Sprint(item)
		}
	}
	return labels
}
