/*
Package jsonapi
Typed models on top of {json:api} APIs.

Usage:

    import "github.com/jsonresource/cli/pkg/jsonapi"

    type Widget struct {
        Id   string `json:"id"`
        Type string `json:"type"`
        Name string `json:"name" validate:"required"`
    }

    func (w Widget) GetId() string { return w.Id }

    func (w Widget) AsDocument() interface{} {
        return jsonapi.PayloadSingular{Data: jsonapi.PayloadResource{
            Type:       "widgets",
            Attributes: map[string]interface{}{"name": w.Name},
        }}
    }

    api := jsonapi.Connection{Host: "https://foo.com", Token: "XXX"}
    widgets := jsonapi.Model[Widget]{API: &api, QueryPath: "widgets", Type: "widgets"}

    // Lets get a page of things
    query := jsonapi.NewQuery()
    query.Filters = map[string]string{"size__gt": "15"}
    items, meta, err := widgets.Find(ctx, query)

    // Lets get, change and save a single thing
    widget, err := widgets.FindOne(ctx, "7", jsonapi.NewQuery())
    widget.Name = "Bolt"
    widget, err = widgets.Update(ctx, widget, jsonapi.NewQuery())

    // Lets create something new
    widget, err = widgets.Create(ctx, Widget{Name: "Nut"}, jsonapi.NewQuery())

    // And remove it
    err = widgets.Delete(ctx, "widgets", widget.Id)

Every response goes through the same pipeline: the body is parsed, each
resource object's attributes are flattened together with its 'id' and 'type'
into a Record, and the Record is decoded into the model and validated with the
model's `validate` tags. Side-loaded ('included') resources are flattened the
same way and can be collected into a Store.
*/
package jsonapi
