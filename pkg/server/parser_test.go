package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zutoData/pindata-sub001/pkg/api"
	"github.com/zutoData/pindata-sub001/pkg/contract"
)

func parseBodyInto(t *testing.T, body string, input interface{}) *contract.Error {
	t.Helper()

	parser, err := NewHTTPRequestParser()
	require.NoError(t, err)

	var cErr *contract.Error

	app := fiber.New()
	app.Post("/", func(ctx *fiber.Ctx) error {
		cErr = parser.ParseBody(ctx, input)
		return nil
	})

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")

	response, err := app.Test(request)
	require.NoError(t, err)
	defer response.Body.Close()

	return cErr
}

func TestParseBodyValidRequest(t *testing.T) {
	input := &api.CreateDatasetRequest{}
	cErr := parseBodyInto(t, `{"name": "demo", "description": "a demo dataset"}`, input)

	require.Nil(t, cErr)
	assert.Equal(t, "demo", input.Name)
}

func TestParseBodyMissingRequiredField(t *testing.T) {
	cErr := parseBodyInto(t, `{"description": "no name"}`, &api.CreateDatasetRequest{})

	require.NotNil(t, cErr)
	assert.Equal(t, contract.ErrorCodeInvalidParameterValue, cErr.Code)
	assert.Contains(t, cErr.Message, "Name")
}

func TestParseBodyWrongFieldType(t *testing.T) {
	cErr := parseBodyInto(t, `{"name": 42}`, &api.CreateDatasetRequest{})

	require.NotNil(t, cErr)
	assert.Equal(t, contract.ErrorCodeInvalidParameterValue, cErr.Code)
	assert.Contains(t, cErr.Message, "name")
}

func TestParseBodyMalformedJSON(t *testing.T) {
	cErr := parseBodyInto(t, `{"name": `, &api.CreateDatasetRequest{})

	require.NotNil(t, cErr)
	assert.Equal(t, contract.ErrorCodeBadRequest, cErr.Code)
}

func TestParseBodyInvalidVersionString(t *testing.T) {
	cErr := parseBodyInto(t, `{
		"version": "latest",
		"version_type": "minor",
		"author": "tester",
		"commit_message": "msg"
	}`, &api.CreateVersionRequest{})

	require.NotNil(t, cErr)
	assert.Equal(t, contract.ErrorCodeInvalidParameterValue, cErr.Code)
	assert.Contains(t, cErr.Message, "Version")
}
