package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/chamalog/chamalog/internal/domain/ids"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError describes one rejected request field using its JSON name.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// BindJSON decodes and validates the body into out. On failure it answers
// 400 invalid_request and returns false.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	if err := ctx.ShouldBindJSON(out); err != nil {
		RespondBadRequest(ctx, "Invalid request body", bindErrorDetails(err, structTypeOf(out)))
		return false
	}
	return true
}

func bindErrorDetails(err error, root reflect.Type) gin.H {
	var (
		verrs    validator.ValidationErrors
		syntax   *json.SyntaxError
		mismatch *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &verrs):
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   validatorFieldPath(root, fe),
				Rule:    fe.Tag(),
				Param:   fe.Param(),
				Message: ruleMessage(fe.Tag(), fe.Param()),
			})
		}
		return gin.H{"fields": fields}

	case errors.As(err, &syntax):
		return gin.H{"json": "invalid_json_syntax"}

	case errors.As(err, &mismatch):
		field := jsonPath(root, strings.Split(strings.TrimSpace(mismatch.Field), "."))
		if field == "" {
			field = strings.TrimSpace(mismatch.Field)
		}
		return gin.H{
			"json":  "invalid_json_type",
			"field": field,
			"fields": []FieldError{{
				Field:   field,
				Rule:    "type",
				Message: fmt.Sprintf("must be of type %s", mismatch.Type.String()),
			}},
		}

	case errors.Is(err, ids.ErrInvalid):
		// ids accept numbers and numeric strings, so only the value was wrong
		return gin.H{"json": "invalid_id", "reason": "ids must be positive integers"}
	}

	return gin.H{"reason": err.Error()}
}

func structTypeOf(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

// validatorFieldPath turns "CreateRequest.Sender" into "remetente".
func validatorFieldPath(root reflect.Type, fe validator.FieldError) string {
	ns := fe.StructNamespace()
	if ns == "" {
		ns = fe.Namespace()
	}
	if ns == "" {
		return fe.Field()
	}

	parts := strings.Split(ns, ".")
	if root != nil && root.Name() != "" && parts[0] == root.Name() {
		parts = parts[1:]
	}

	if p := jsonPath(root, parts); p != "" {
		return p
	}
	return fe.Field()
}

func jsonPath(root reflect.Type, parts []string) string {
	out := make([]string, 0, len(parts))
	cur := root

	for _, part := range parts {
		if part == "" {
			continue
		}

		name, index := part, ""
		if i := strings.IndexByte(part, '['); i >= 0 {
			name, index = part[:i], part[i:]
		}

		jsonName := name
		var next reflect.Type

		cur = elemType(cur)
		if cur != nil && cur.Kind() == reflect.Struct {
			if sf, ok := cur.FieldByName(name); ok {
				jsonName = jsonTagName(sf)
				next = sf.Type
			}
		}

		out = append(out, jsonName+index)
		cur = elemType(next)
	}

	return strings.Join(out, ".")
}

func jsonTagName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return sf.Name
	}
	return name
}

// elemType unwraps pointers and collections down to the element type.
func elemType(t reflect.Type) reflect.Type {
	for t != nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array:
			t = t.Elem()
		default:
			return t
		}
	}
	return nil
}

func ruleMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "required_without":
		return "is required when " + param + " is absent"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "len":
		return "must be exactly " + param
	case "alphanum":
		return "must contain only letters and digits"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	}

	if param != "" {
		return fmt.Sprintf("failed %s validation (%s)", rule, param)
	}
	return "failed " + rule + " validation"
}
