package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/iwvelando/portfolio-optimizer/internal/knapsack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequestValid(t *testing.T) {
	body := []byte(`{
		"capacidad": 10000,
		"objetos": [
			{"nombre": "A", "peso": 2000, "ganancia": 1500},
			{"nombre": "B", "peso": 4000.5, "ganancia": 0}
		]
	}`)

	req, err := DecodeRequest(body)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, req.Capacity)
	assert.Equal(t, []Item{
		{Name: "A", Cost: 2000, Gain: 1500},
		{Name: "B", Cost: 4000.5, Gain: 0},
	}, req.Items)

	engineItems := req.Engine()
	require.Len(t, engineItems, 2)
	assert.Equal(t, knapsack.Item{Name: "B", Cost: 4000.5, Gain: 0}, engineItems[1])
}

func TestDecodeRequestEmptyListIsValid(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"capacidad": 0, "objetos": []}`))
	require.NoError(t, err)
	assert.Equal(t, 0.0, req.Capacity)
	assert.Empty(t, req.Items)
}

func TestDecodeRequestRejections(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"Empty body", ``, "Datos JSON requeridos"},
		{"Not JSON", `capacidad=10`, "Datos JSON requeridos"},
		{"Null document", `null`, "Datos JSON requeridos"},
		{"Array document", `[1, 2]`, "Datos JSON requeridos"},
		{"Missing capacity", `{"objetos": []}`, "Campo 'capacidad' es requerido"},
		{"Missing items", `{"capacidad": 10}`, "Campo 'objetos' es requerido"},
		{"Text capacity", `{"capacidad": "diez", "objetos": []}`, "La capacidad debe ser un número"},
		{"Null capacity", `{"capacidad": null, "objetos": []}`, "La capacidad debe ser un número"},
		{"Items not a list", `{"capacidad": 10, "objetos": {"nombre": "A"}}`, "Los objetos deben ser una lista"},
		{"Null items", `{"capacidad": 10, "objetos": null}`, "Los objetos deben ser una lista"},
		{"Item not an object", `{"capacidad": 10, "objetos": [5]}`, "El objeto 0 debe ser un diccionario"},
		{"Item without name", `{"capacidad": 10, "objetos": [{"peso": 1, "ganancia": 1}]}`, "El objeto 0 debe tener un campo 'nombre'"},
		{"Item without cost", `{"capacidad": 10, "objetos": [{"nombre": "A", "peso": 1, "ganancia": 1}, {"nombre": "B", "ganancia": 1}]}`, "El objeto 1 debe tener un campo 'peso'"},
		{"Item without gain", `{"capacidad": 10, "objetos": [{"nombre": "A", "peso": 1}]}`, "El objeto 0 debe tener un campo 'ganancia'"},
		{"Numeric name", `{"capacidad": 10, "objetos": [{"nombre": 7, "peso": 1, "ganancia": 1}]}`, "El nombre del objeto 0 debe ser texto"},
		{"Text cost", `{"capacidad": 10, "objetos": [{"nombre": "A", "peso": "uno", "ganancia": 1}]}`, "El peso del objeto 0 debe ser un número"},
		{"Boolean gain", `{"capacidad": 10, "objetos": [{"nombre": "A", "peso": 1, "ganancia": true}]}`, "La ganancia del objeto 0 debe ser un número"},
		{"Duplicated name", `{"capacidad": 10, "objetos": [{"nombre": "A", "peso": 1, "ganancia": 1}, {"nombre": "A", "peso": 2, "ganancia": 2}]}`, "El nombre 'A' del objeto 1 ya fue usado por el objeto 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRequest([]byte(tt.body))
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr), "expected *Error, got %T", err)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.Equal(t, tt.expected, apiErr.Message)
		})
	}
}

func TestNewResponse(t *testing.T) {
	resp := NewResponse(&knapsack.Result{
		Selected:  []int{0, 2},
		Names:     []string{"A", "C"},
		TotalGain: 5500,
		TotalCost: 7000,
	})
	assert.Equal(t, Response{Selected: []string{"A", "C"}, TotalGain: 5500, TotalCost: 7000}, resp)

	empty := NewResponse(&knapsack.Result{})
	assert.NotNil(t, empty.Selected, "selection must encode as [] rather than null")
	assert.Empty(t, empty.Selected)
}

func TestFromEngineError(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "Negative capacity",
			err:             &knapsack.CapacityError{Value: -1, Reason: "must not be negative"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "La capacidad debe ser un número no negativo",
		},
		{
			name:            "Negative cost",
			err:             &knapsack.ItemError{Index: 3, Field: knapsack.FieldCost, Value: -2, Reason: "must not be negative"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "El peso del objeto 3 debe ser un número no negativo",
		},
		{
			name:            "Off-grid cost",
			err:             &knapsack.ItemError{Index: 1, Field: knapsack.FieldCost, Value: 1.5, Reason: "is not representable"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "El peso del objeto 1 no es válido con la precisión configurada",
		},
		{
			name:            "Negative gain",
			err:             &knapsack.ItemError{Index: 0, Field: knapsack.FieldGain, Value: -1, Reason: "must not be negative"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "La ganancia del objeto 0 debe ser un número no negativo",
		},
		{
			name:            "Empty name",
			err:             &knapsack.ItemError{Index: 2, Field: knapsack.FieldName, Reason: "must not be empty"},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "El nombre del objeto 2 no puede estar vacío",
		},
		{
			name:            "Too large",
			err:             &knapsack.LimitError{Items: 60, CapacityUnits: 1 << 40, Reason: "too big"},
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedMessage: "La capacidad y la cantidad de objetos exceden el límite de cálculo permitido",
		},
		{
			name:            "Unexpected",
			err:             errors.New("boom"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "Error interno del servidor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromEngineError(tt.err)
			assert.Equal(t, tt.expectedStatus, apiErr.Status)
			assert.Equal(t, tt.expectedMessage, apiErr.Message)
			assert.Equal(t, tt.err.Error(), apiErr.Details)
			assert.ErrorIs(t, apiErr, tt.err)

			body := apiErr.Body()
			assert.Equal(t, tt.expectedMessage, body.Error)
			assert.Equal(t, tt.err.Error(), body.Details)
		})
	}
}
