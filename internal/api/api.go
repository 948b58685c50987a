// Package api defines the JSON contract of the optimization endpoint and
// translates between it and the knapsack engine.
//
// Field names and error messages follow the contract the web form was built
// against; error messages are shown to the user verbatim.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/iwvelando/portfolio-optimizer/internal/knapsack"
)

// Item is a candidate project as sent by the form.
type Item struct {
	Name string  `json:"nombre" yaml:"nombre"`
	Cost float64 `json:"peso" yaml:"peso"`
	Gain float64 `json:"ganancia" yaml:"ganancia"`
}

// Request is the body of POST /optimizar.
type Request struct {
	Capacity float64 `json:"capacidad" yaml:"capacidad"`
	Items    []Item  `json:"objetos" yaml:"objetos"`
}

// Response is the success body of POST /optimizar.
type Response struct {
	Selected  []string `json:"seleccionados" yaml:"seleccionados"`
	TotalGain float64  `json:"ganancia_total" yaml:"ganancia_total"`
	TotalCost float64  `json:"peso_total" yaml:"peso_total"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// Error is a rejected request: the HTTP status, the user-facing message and
// optional technical details.
type Error struct {
	Status  int
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Body renders the error as the wire document.
func (e *Error) Body() ErrorResponse {
	return ErrorResponse{Error: e.Message, Details: e.Details}
}

func badRequest(format string, args ...interface{}) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Engine converts the request into engine items.
func (r Request) Engine() []knapsack.Item {
	items := make([]knapsack.Item, len(r.Items))
	for i, item := range r.Items {
		items[i] = knapsack.Item{Name: item.Name, Cost: item.Cost, Gain: item.Gain}
	}
	return items
}

// NewResponse assembles the wire response from an engine result.
func NewResponse(result *knapsack.Result) Response {
	selected := append([]string{}, result.Names...)
	return Response{
		Selected:  selected,
		TotalGain: result.TotalGain,
		TotalCost: result.TotalCost,
	}
}

// DecodeRequest parses and validates a request body. Every problem is
// reported as an *Error naming the offending field and, for projects, its
// position in the list.
func DecodeRequest(data []byte) (Request, error) {
	var req Request

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return req, badRequest("Datos JSON requeridos")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil || fields == nil {
		e := badRequest("Datos JSON requeridos")
		if err != nil {
			e.Details = err.Error()
			e.Err = err
		}
		return req, e
	}

	rawCapacity, ok := fields["capacidad"]
	if !ok {
		return req, badRequest("Campo 'capacidad' es requerido")
	}
	rawItems, ok := fields["objetos"]
	if !ok {
		return req, badRequest("Campo 'objetos' es requerido")
	}

	if err := decodeNumber(rawCapacity, &req.Capacity); err != nil {
		return req, badRequest("La capacidad debe ser un número")
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(rawItems, &elements); err != nil || isNull(rawItems) {
		return req, badRequest("Los objetos deben ser una lista")
	}

	req.Items = make([]Item, 0, len(elements))
	seen := make(map[string]int, len(elements))
	for i, raw := range elements {
		item, err := decodeItem(i, raw)
		if err != nil {
			return req, err
		}
		if strings.TrimSpace(item.Name) != "" {
			if first, dup := seen[item.Name]; dup {
				return req, badRequest("El nombre '%s' del objeto %d ya fue usado por el objeto %d", item.Name, i, first)
			}
			seen[item.Name] = i
		}
		req.Items = append(req.Items, item)
	}

	return req, nil
}

func decodeItem(index int, raw json.RawMessage) (Item, error) {
	var item Item

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return item, badRequest("El objeto %d debe ser un diccionario", index)
	}

	for _, name := range []string{"nombre", "peso", "ganancia"} {
		if _, ok := fields[name]; !ok {
			return item, badRequest("El objeto %d debe tener un campo '%s'", index, name)
		}
	}

	if err := json.Unmarshal(fields["nombre"], &item.Name); err != nil || isNull(fields["nombre"]) {
		return item, badRequest("El nombre del objeto %d debe ser texto", index)
	}
	if err := decodeNumber(fields["peso"], &item.Cost); err != nil {
		return item, badRequest("El peso del objeto %d debe ser un número", index)
	}
	if err := decodeNumber(fields["ganancia"], &item.Gain); err != nil {
		return item, badRequest("La ganancia del objeto %d debe ser un número", index)
	}

	return item, nil
}

func decodeNumber(raw json.RawMessage, target *float64) error {
	if isNull(raw) {
		return errors.New("null is not a number")
	}
	return json.Unmarshal(raw, target)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// FromEngineError maps an engine rejection to the wire error. Unknown errors
// become an internal server error.
func FromEngineError(err error) *Error {
	var capErr *knapsack.CapacityError
	var itemErr *knapsack.ItemError
	var limitErr *knapsack.LimitError

	switch {
	case errors.As(err, &capErr):
		return &Error{
			Status:  http.StatusBadRequest,
			Message: "La capacidad debe ser un número no negativo",
			Details: err.Error(),
			Err:     err,
		}
	case errors.As(err, &itemErr):
		return &Error{
			Status:  http.StatusBadRequest,
			Message: itemMessage(itemErr),
			Details: err.Error(),
			Err:     err,
		}
	case errors.As(err, &limitErr):
		return &Error{
			Status:  http.StatusUnprocessableEntity,
			Message: "La capacidad y la cantidad de objetos exceden el límite de cálculo permitido",
			Details: err.Error(),
			Err:     err,
		}
	default:
		return &Error{
			Status:  http.StatusInternalServerError,
			Message: "Error interno del servidor",
			Details: err.Error(),
			Err:     err,
		}
	}
}

func itemMessage(e *knapsack.ItemError) string {
	switch e.Field {
	case knapsack.FieldName:
		return fmt.Sprintf("El nombre del objeto %d no puede estar vacío", e.Index)
	case knapsack.FieldCost:
		if e.Value < 0 {
			return fmt.Sprintf("El peso del objeto %d debe ser un número no negativo", e.Index)
		}
		return fmt.Sprintf("El peso del objeto %d no es válido con la precisión configurada", e.Index)
	case knapsack.FieldGain:
		return fmt.Sprintf("La ganancia del objeto %d debe ser un número no negativo", e.Index)
	default:
		return fmt.Sprintf("El objeto %d no es válido", e.Index)
	}
}
