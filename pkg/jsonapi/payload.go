package jsonapi

import (
	"encoding/json"
	"fmt"
	"reflect"
)

type PaginationLinks struct {
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
}

// Used to build request bodies

type PayloadSingular struct {
	Data PayloadResource `json:"data"`
}

type PayloadResource struct {
	Type          string                 `json:"type"`
	Id            string                 `json:"id,omitempty"`
	Attributes    map[string]interface{} `json:"attributes,omitempty"`
	Relationships map[string]interface{} `json:"relationships,omitempty"`
}

type ResourceIdentifier struct {
	Type string `json:"type,omitempty"`
	Id   string `json:"id,omitempty"`
}

/*
Record is a flattened resource object: its attributes plus the 'id' and
'type' keys. It is the shape typed models are decoded from, and it is also a
schema-less Modelable in its own right:

	records := jsonapi.Model[jsonapi.Record]{API: &api, QueryPath: "widgets"}
	widgets, meta, err := records.Find(ctx, jsonapi.NewQuery())
	fmt.Println(widgets[0]["name"], meta["count"])
*/
type Record map[string]interface{}

func (r Record) GetId() string {
	id, _ := r["id"].(string)
	return id
}

func (r Record) GetType() string {
	typ, _ := r["type"].(string)
	return typ
}

// Attributes returns a copy of the record without the 'id' and 'type' keys.
func (r Record) Attributes() map[string]interface{} {
	result := make(map[string]interface{}, len(r))
	for key, value := range r {
		if key == "id" || key == "type" {
			continue
		}
		result[key] = value
	}
	return result
}

func (r Record) AsDocument() interface{} {
	return PayloadSingular{Data: PayloadResource{
		Type:       r.GetType(),
		Id:         r.GetId(),
		Attributes: r.Attributes(),
	}}
}

/*
Relationships is the raw 'relationships' object of a resource object. Models
that implement RelationshipReader receive it while being decoded:

	type Widget struct {
		Id      string `json:"id"`
		Name    string `json:"name"`
		OwnerId string `json:"-"`
	}

	func (w *Widget) ReadRelationships(r jsonapi.Relationships) error {
		ownerId, err := r.Id("owner")
		if err != nil {
			return err
		}
		w.OwnerId = ownerId
		return nil
	}
*/
type Relationships map[string]interface{}

type RelationshipReader interface {
	ReadRelationships(relationships Relationships) error
}

// Identifier returns the resource identifier of a singular relationship.
func (r Relationships) Identifier(name string) (ResourceIdentifier, error) {
	relationship, ok := r[name].(map[string]interface{})
	if !ok {
		return ResourceIdentifier{}, &AttributeError{
			Message: fmt.Sprintf("relationship %s does not exist", name),
		}
	}
	data, ok := relationship["data"].(map[string]interface{})
	if !ok {
		return ResourceIdentifier{}, &AttributeError{
			Message: fmt.Sprintf("relationship %s has no data", name),
		}
	}
	id, ok := data["id"].(string)
	if !ok || id == "" {
		return ResourceIdentifier{}, &AttributeError{
			Message: fmt.Sprintf("relationship %s has no id", name),
		}
	}
	typ, _ := data["type"].(string)
	return ResourceIdentifier{Type: typ, Id: id}, nil
}

func (r Relationships) Id(name string) (string, error) {
	identifier, err := r.Identifier(name)
	if err != nil {
		return "", err
	}
	return identifier.Id, nil
}

func jsonEqual(leftBytes, rightBytes []byte) (bool, error) {
	var left interface{}
	err := json.Unmarshal(leftBytes, &left)
	if err != nil {
		return false, err
	}

	var right interface{}
	err = json.Unmarshal(rightBytes, &right)
	if err != nil {
		return false, err
	}

	return reflect.DeepEqual(left, right), nil
}
