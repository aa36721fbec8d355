package jrlib

import (
	"bytes"
	"context"
	"testing"

	"github.com/jsonresource/cli/pkg/jsonapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withConfirm(t *testing.T, answer bool) *string {
	var asked string
	original := confirm
	confirm = func(label string) bool {
		asked = label
		return answer
	}
	t.Cleanup(func() { confirm = original })
	return &asked
}

func TestDeleteCommandForce(t *testing.T) {
	mockData := jsonapi.MockData{
		"/widgets/1": singleResponse(""),
		"/widgets/2": singleResponse(""),
	}
	asked := withConfirm(t, false)

	var out bytes.Buffer
	err := DeleteCommand(context.Background(), nil, getTestConnection(mockData),
		&out, DeleteCommandArguments{
			Type:  "widgets",
			Ids:   []string{"1", "2"},
			Force: true,
		})
	require.NoError(t, err)

	assert.Equal(t, "", *asked)
	assert.Equal(t, "Deleted widgets/1\nDeleted widgets/2\n", out.String())
	assert.Equal(t, "DELETE", mockData["/widgets/1"].Requests[0].Request.Method)
	assert.Equal(t, "DELETE", mockData["/widgets/2"].Requests[0].Request.Method)
}

func TestDeleteCommandConfirmation(t *testing.T) {
	mockData := jsonapi.MockData{"/widgets/1": singleResponse("")}

	asked := withConfirm(t, false)
	var out bytes.Buffer
	err := DeleteCommand(context.Background(), nil, getTestConnection(mockData),
		&out, DeleteCommandArguments{
			Type: "widgets", Ids: []string{"1"}, Interactive: true,
		})
	require.NoError(t, err)
	assert.Equal(t, "Delete widgets 1", *asked)
	assert.Equal(t, "Delete was cancelled!\n", out.String())
	assert.Equal(t, 0, mockData["/widgets/1"].Count)

	withConfirm(t, true)
	out.Reset()
	err = DeleteCommand(context.Background(), nil, getTestConnection(mockData),
		&out, DeleteCommandArguments{
			Type: "widgets", Ids: []string{"1"}, Interactive: true,
		})
	require.NoError(t, err)
	assert.Equal(t, 1, mockData["/widgets/1"].Count)
}

func TestDeleteCommandNotInteractive(t *testing.T) {
	var out bytes.Buffer
	err := DeleteCommand(context.Background(), nil,
		getTestConnection(jsonapi.MockData{}), &out,
		DeleteCommandArguments{Type: "widgets", Ids: []string{"1"}})
	assert.EqualError(t, err,
		"refusing to delete without confirmation, use --force")
}

func TestDeleteCommandSkip(t *testing.T) {
	mockData := jsonapi.MockData{
		"/widgets/1": &jsonapi.MockEndpoint{Requests: []jsonapi.MockRequest{{
			Response: jsonapi.MockResponse{Err: &jsonapi.Error{StatusCode: 403}},
		}}},
		"/widgets/2": singleResponse(""),
	}

	var out bytes.Buffer
	err := DeleteCommand(context.Background(), nil, getTestConnection(mockData),
		&out, DeleteCommandArguments{
			Type: "widgets", Ids: []string{"1", "2"}, Force: true, Skip: true,
		})
	assert.EqualError(t, err, "1 of 2 deletions failed")
	assert.Contains(t, out.String(), "Could not delete widgets/1")
	assert.Contains(t, out.String(), "Deleted widgets/2")

	mockData["/widgets/1"].Count = 0
	out.Reset()
	err = DeleteCommand(context.Background(), nil, getTestConnection(mockData),
		&out, DeleteCommandArguments{
			Type: "widgets", Ids: []string{"1", "2"}, Force: true,
		})
	assert.Error(t, err)
	assert.Empty(t, out.String())
}
