package codegen

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

var (
	contentPolicyOnce sync.Once
	contentPolicy     *bluemonday.Policy
)

// SanitizeContent strips scripts, event handlers and other active markup
// from the content of html blocks before they are embedded in generated
// source.
func SanitizeContent() model.Decorator {
	return model.DecoratorFunc(func(def *model.FormDefinition) error {
		for i := range def.Fields {
			field := &def.Fields[i]
			if field.Type != model.FieldTypeHTML || field.Config.Content == "" {
				continue
			}
			field.Config.Content = sanitizeMarkup(field.Config.Content)
		}
		return nil
	})
}

func sanitizeMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(contentSanitizer().Sanitize(trimmed))
}

func contentSanitizer() *bluemonday.Policy {
	contentPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		policy.RequireNoFollowOnLinks(false)
		contentPolicy = policy
	})
	return contentPolicy
}
