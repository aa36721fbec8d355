package jsonapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Meta map[string]interface{}

// Document is a decoded single-resource response.
type Document[T any] struct {
	Data            T
	Included        []T
	IncludedRecords []Record
	Meta            Meta
}

// Documents is a decoded collection response.
type Documents[T any] struct {
	Data            []T
	Included        []T
	IncludedRecords []Record
	Meta            Meta
	Links           PaginationLinks
}

var validate = newValidator()

func newValidator() *validator.Validate {
	result := validator.New()
	result.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return result
}

/*
Flatten merges a resource object's attributes with its 'id' and 'type' into a
single Record. 'id' and 'type' always win over same-named attributes. The
object must carry an 'attributes' object, otherwise a *DataError is returned.
*/
func Flatten(object map[string]interface{}) (Record, error) {
	attributes, ok := object["attributes"].(map[string]interface{})
	if !ok {
		return nil, &DataError{Message: fmt.Sprintf(
			"resource object %v/%v has no attributes",
			object["type"], object["id"],
		)}
	}
	result := make(Record, len(attributes)+2)
	for key, value := range attributes {
		result[key] = value
	}
	result["id"] = object["id"]
	result["type"] = object["type"]
	return result, nil
}

/*
DecodeDocument
Parses a single-resource response. 'data' may be an object or an array; only
the first resource object is used. A response without primary data fails with
an *AttributeError.
*/
func DecodeDocument[T any](body []byte) (Document[T], error) {
	var result Document[T]
	top, err := parseBody(body)
	if err != nil {
		return result, err
	}

	objects, err := resourceObjects(top["data"])
	if err != nil {
		return result, err
	}
	if len(objects) == 0 {
		return result, &AttributeError{Message: "No data found"}
	}
	data, err := decodeObject[T](objects[0])
	if err != nil {
		return result, err
	}

	result.Data = data
	result.Included, result.IncludedRecords = decodeIncluded[T](
		top["included"], primaryType(objects),
	)
	result.Meta = parseMeta(top["meta"])
	return result, nil
}

/*
DecodeDocuments
Parses a collection response. An empty or missing 'data' is a valid, empty
collection.
*/
func DecodeDocuments[T any](body []byte) (Documents[T], error) {
	var result Documents[T]
	top, err := parseBody(body)
	if err != nil {
		return result, err
	}

	objects, err := resourceObjects(top["data"])
	if err != nil {
		return result, err
	}
	result.Data = make([]T, 0, len(objects))
	for _, object := range objects {
		item, err := decodeObject[T](object)
		if err != nil {
			return result, err
		}
		result.Data = append(result.Data, item)
	}

	result.Included, result.IncludedRecords = decodeIncluded[T](
		top["included"], primaryType(objects),
	)
	result.Meta = parseMeta(top["meta"])
	result.Links = parseLinks(top["links"])
	return result, nil
}

/*
DecodeRecord
Decodes a flat record into a typed model and validates it. 'object' is the
resource object the record came from; it is only used to hand the
'relationships' to models implementing RelationshipReader and may be nil.
*/
func DecodeRecord[T any](record Record, object map[string]interface{}) (T, error) {
	var result T
	decodeError := func(field string, err error) *DecodeError {
		return &DecodeError{
			Type:  record.GetType(),
			Id:    record.GetId(),
			Field: field,
			Err:   err,
		}
	}

	// Records are copied as they are so numbers stay json.Number
	if target, ok := any(&result).(*Record); ok {
		*target = make(Record, len(record))
		for key, value := range record {
			(*target)[key] = value
		}
		return result, nil
	}

	data, err := json.Marshal(record)
	if err != nil {
		return result, decodeError("", err)
	}
	err = json.Unmarshal(data, &result)
	if err != nil {
		var typeError *json.UnmarshalTypeError
		if errors.As(err, &typeError) {
			return result, decodeError(typeError.Field, err)
		}
		return result, decodeError("", err)
	}

	err = validateModel(result)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return result, decodeError(validationErrors[0].Field(), err)
		}
		return result, decodeError("", err)
	}

	reader, ok := any(result).(RelationshipReader)
	if !ok {
		reader, ok = any(&result).(RelationshipReader)
	}
	if ok {
		relationships, _ := object["relationships"].(map[string]interface{})
		if relationships == nil {
			relationships = make(map[string]interface{})
		}
		err = reader.ReadRelationships(relationships)
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

func decodeObject[T any](object map[string]interface{}) (T, error) {
	record, err := Flatten(object)
	if err != nil {
		var zero T
		return zero, err
	}
	return DecodeRecord[T](record, object)
}

func validateModel(model interface{}) error {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	return validate.Struct(value.Interface())
}

func parseBody(body []byte) (map[string]interface{}, error) {
	var top map[string]interface{}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	err := decoder.Decode(&top)
	if err != nil || top == nil {
		return nil, &DataError{Message: "Parse Error"}
	}
	return top, nil
}

// Normalizes 'data' (object, array, null or absent) to a list of objects
func resourceObjects(data interface{}) ([]map[string]interface{}, error) {
	switch value := data.(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		return []map[string]interface{}{value}, nil
	case []interface{}:
		result := make([]map[string]interface{}, 0, len(value))
		for i, item := range value {
			object, ok := item.(map[string]interface{})
			if !ok {
				return nil, &DataError{Message: fmt.Sprintf(
					"resource object at index %d is not an object", i,
				)}
			}
			result = append(result, object)
		}
		return result, nil
	default:
		return nil, &DataError{
			Message: "data is neither an object nor an array",
		}
	}
}

func primaryType(objects []map[string]interface{}) string {
	if len(objects) == 0 {
		return ""
	}
	typ, _ := objects[0]["type"].(string)
	return typ
}

/*
Flattens 'included' the same way as 'data'. Malformed entries are skipped; the
typed list only holds entries of the primary type that decode cleanly.
*/
func decodeIncluded[T any](included interface{}, typ string) ([]T, []Record) {
	typed := make([]T, 0)
	records := make([]Record, 0)
	items, ok := included.([]interface{})
	if !ok {
		return typed, records
	}
	for _, item := range items {
		object, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		record, err := Flatten(object)
		if err != nil {
			continue
		}
		records = append(records, record)
		if typ == "" || record.GetType() != typ {
			continue
		}
		decoded, err := DecodeRecord[T](record, object)
		if err != nil {
			continue
		}
		typed = append(typed, decoded)
	}
	return typed, records
}

func parseMeta(meta interface{}) Meta {
	value, ok := meta.(map[string]interface{})
	if !ok {
		return Meta{}
	}
	return Meta(value)
}

func parseLinks(links interface{}) PaginationLinks {
	var result PaginationLinks
	value, ok := links.(map[string]interface{})
	if !ok {
		return result
	}
	result.Next, _ = value["next"].(string)
	result.Previous, _ = value["prev"].(string)
	if result.Previous == "" {
		result.Previous, _ = value["previous"].(string)
	}
	return result
}
