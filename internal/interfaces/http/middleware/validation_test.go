package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcraft/backend/internal/interfaces/http/dto"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NotNil(t, v)
}

func TestHandleValidationError(t *testing.T) {
	SetupValidator()
	gin.SetMode(gin.TestMode)

	type signupInput struct {
		Email string `json:"email" binding:"required,email"`
		Age   int    `json:"age" binding:"required,min=18"`
	}

	router := gin.New()
	router.POST("/signup", func(c *gin.Context) {
		var in signupInput
		if err := c.ShouldBindJSON(&in); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/signup", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("invalid input lists every failed field", func(t *testing.T) {
		w := post(`{"email": "not-an-email", "age": 12}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		assert.Len(t, resp.Error.Details, 2)
	})

	t.Run("missing required field reported by json tag name", func(t *testing.T) {
		w := post(`{"age": 30}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "email", resp.Error.Details[0].Field)
		assert.Equal(t, "This field is required", resp.Error.Details[0].Message)
	})

	t.Run("valid input passes through", func(t *testing.T) {
		w := post(`{"email": "buyer@example.com", "age": 25}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-validator error still yields the envelope", func(t *testing.T) {
		w := post(`{"email": 42}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Empty(t, resp.Error.Details)
	})
}

func TestValidationMessage(t *testing.T) {
	type fields struct {
		Required string `validate:"required"`
		Email    string `validate:"omitempty,email"`
		Min      string `validate:"omitempty,min=5"`
		Max      string `validate:"omitempty,max=3"`
		Len      string `validate:"omitempty,len=4"`
		UUID     string `validate:"omitempty,uuid"`
		OneOf    string `validate:"omitempty,oneof=small medium large"`
		URL      string `validate:"omitempty,url"`
		Numeric  string `validate:"omitempty,numeric"`
		MinInt   int    `validate:"omitempty,min=18"`
	}

	v := validator.New()

	tests := []struct {
		field string
		value fields
		want  string
	}{
		{"Required", fields{}, "This field is required"},
		{"Email", fields{Required: "x", Email: "nope"}, "Invalid email format"},
		{"Min", fields{Required: "x", Min: "ab"}, "Must be at least 5 characters"},
		{"Max", fields{Required: "x", Max: "toolong"}, "Must be at most 3 characters"},
		{"Len", fields{Required: "x", Len: "ab"}, "Must be exactly 4 characters"},
		{"UUID", fields{Required: "x", UUID: "nope"}, "Invalid UUID format"},
		{"OneOf", fields{Required: "x", OneOf: "huge"}, "Must be one of: small medium large"},
		{"URL", fields{Required: "x", URL: "nope"}, "Invalid URL format"},
		{"Numeric", fields{Required: "x", Numeric: "abc"}, "Must be numeric"},
		{"MinInt", fields{Required: "x", MinInt: 5}, "Must be at least 18"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			err := v.Struct(tt.value)
			require.Error(t, err)

			fieldErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok)

			for _, e := range fieldErrs {
				if e.StructField() == tt.field {
					assert.Equal(t, tt.want, validationMessage(e))
					return
				}
			}
			t.Fatalf("no validation error recorded for field %s", tt.field)
		})
	}
}

func TestFormatValidationErrors_RequestID(t *testing.T) {
	type input struct {
		Name string `json:"name" validate:"required"`
	}

	err := validator.New().Struct(input{})
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-42")
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-42", resp.Error.RequestID)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
}
