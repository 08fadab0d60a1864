package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ppiankov/sandbox-validator/internal/model"
)

// TagName is the struct tag carrying validation rules. It matches gin's
// binding tag so models validate the same way over HTTP and on the CLI.
const TagName = "binding"

// structValidate is the shared validator instance. Safe for concurrent use.
var structValidate *validator.Validate

func init() {
	structValidate = validator.New()
	structValidate.SetTagName(TagName)
	RegisterFieldNames(structValidate)
}

// RegisterFieldNames makes v report wire names (json, then form tags) instead of
// Go field names. The HTTP server applies it to gin's validator engine.
func RegisterFieldNames(v *validator.Validate) {
	v.RegisterTagNameFunc(wireName)
}

func wireName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Struct validates v against its binding tags.
func Struct(v any) error {
	if err := structValidate.Struct(v); err != nil {
		return FromError(err)
	}
	return nil
}

// TicketRequest validates a ticket request built outside the HTTP layer.
func TicketRequest(req model.TicketRequest) error {
	return Struct(req)
}

// KBQuery trims the query and validates it together with the result count.
func KBQuery(q string, topK int) (model.KBQuery, error) {
	query := model.KBQuery{Query: strings.TrimSpace(q), TopK: topK}
	if err := Struct(query); err != nil {
		return model.KBQuery{}, err
	}
	return query, nil
}
