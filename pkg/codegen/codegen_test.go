package codegen

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func TestJSONMatchesGolden(t *testing.T) {
	t.Parallel()

	got, err := Generate(testsupport.SampleDefinition(), FormatJSON)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	path := filepath.Join("testdata", "contact.json")
	if testsupport.WriteMaybeGolden(t, path, []byte(got)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, path)
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaMatchesGolden(t *testing.T) {
	t.Parallel()

	got, err := Generate(testsupport.SampleDefinition(), FormatSchema)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	path := filepath.Join("testdata", "contact.schema.golden")
	if testsupport.WriteMaybeGolden(t, path, []byte(got)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, path)
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestGeneratorsAreDeterministic(t *testing.T) {
	t.Parallel()

	registry, err := NewDefaultRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	def := testsupport.SampleDefinition()
	def.Fields[0].Config.Extra = map[string]any{"zeta": 1, "alpha": 2, "mid": []any{"x"}}

	for _, format := range registry.List() {
		first, err := registry.Generate(def, format)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		for i := 0; i < 5; i++ {
			again, err := registry.Generate(def, format)
			if err != nil {
				t.Fatalf("%s: %v", format, err)
			}
			if again != first {
				t.Fatalf("%s output changed between runs", format)
			}
		}
	}
}

func TestGenerateDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	def := testsupport.SampleDefinition()
	if _, err := Generate(def, FormatSchema); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if diff := cmp.Diff(testsupport.SampleDefinition(), def); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}

func TestUnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := Generate(testsupport.SampleDefinition(), "xml")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.MustRegister(NewJSONGenerator())
	if err := registry.Register(NewJSONGenerator()); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil generator error")
	}
	if !registry.Has(FormatJSON) || registry.Has(FormatYAML) {
		t.Fatalf("unexpected registry contents %v", registry.List())
	}
}

func TestRuleExpression(t *testing.T) {
	t.Parallel()

	cases := []struct {
		rule model.ConditionalRule
		want string
	}{
		{model.ConditionalRule{Field: "country", Operator: model.OperatorEquals, Value: "US"}, "country === 'US'"},
		{model.ConditionalRule{Field: "age", Operator: model.OperatorEquals, Value: float64(5)}, "age === 5"},
		{model.ConditionalRule{Field: "agree", Operator: model.OperatorNotEquals, Value: true}, "agree !== true"},
		{model.ConditionalRule{Field: "bio", Operator: model.OperatorContains, Value: "Go"}, "typeof bio === 'string' && bio.toLowerCase().includes('go')"},
		{model.ConditionalRule{Field: "bio", Operator: model.OperatorContains, Value: float64(1)}, "false"},
		{model.ConditionalRule{Field: "age", Operator: model.OperatorGreaterThan, Value: "18"}, "Number(age) > 18"},
		{model.ConditionalRule{Field: "age", Operator: model.OperatorLessThan, Value: 2.5}, "Number(age) < 2.5"},
		{model.ConditionalRule{Field: "age", Operator: model.OperatorLessThan, Value: "lots"}, "false"},
		{model.ConditionalRule{Field: "notes", Operator: model.OperatorIsEmpty}, "!notes || notes === ''"},
		{model.ConditionalRule{Field: "notes", Operator: model.OperatorIsNotEmpty}, "!!notes && notes !== ''"},
		{model.ConditionalRule{Field: "first-name", Operator: model.OperatorIsEmpty}, "!values['first-name'] || values['first-name'] === ''"},
		{model.ConditionalRule{Field: "name", Operator: model.OperatorEquals, Value: "it's\nodd"}, `name === 'it\'s\nodd'`},
		{model.ConditionalRule{Field: "name", Operator: "matches", Value: "x"}, "false"},
		{model.ConditionalRule{Operator: model.OperatorIsEmpty}, "false"},
	}
	for _, tc := range cases {
		if got := RuleExpression(tc.rule); got != tc.want {
			t.Errorf("RuleExpression(%+v) = %q, want %q", tc.rule, got, tc.want)
		}
	}
}

func TestSchemaEscapesLiteralsAndOmitsBadPatterns(t *testing.T) {
	t.Parallel()

	maxLen := 10
	rows := 4
	def := model.FormDefinition{
		Name:     "signup",
		Settings: model.DefaultSettings(),
		Fields: []model.FieldDefinition{
			{Type: model.FieldTypeText, Name: "code", Label: "Line one\nit's two", Order: 0, Config: model.Config{Pattern: "([a-z", MaxLength: &maxLen}},
			{Type: model.FieldTypeText, Name: "path", Label: "Path", Order: 1, Config: model.Config{Pattern: `^/a\/b$`}},
			{Type: model.FieldTypeTextArea, Name: "bio", Label: "Bio", Order: 2, Config: model.Config{Rows: &rows, Currency: "EUR"}},
			{Type: model.FieldTypeCurrency, Name: "price", Label: "Price", Order: 3, Config: model.Config{Currency: "EUR"}},
			{Type: model.FieldTypePassword, Name: "secret", Label: "Secret", Order: 4, Config: model.Config{RequireNumber: true, Required: true}},
			{Type: model.FieldTypePassword, Name: "confirm", Label: "Confirm", Order: 5},
		},
		CrossValidators: []model.CrossValidatorDef{
			{Name: "match", Type: model.ValidatorFieldsMatch, Fields: []string{"secret", "confirm"}, Message: "Passwords don't match"},
			{Name: "match", Type: model.ValidatorCustom, CustomExpression: "values.secret.length > 3"},
		},
	}

	got, err := Generate(def, FormatSchema)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, want := range []string{
		"TextField('code', 'Line one\\nit\\'s two', { maxLength: 10 }),",
		"TextField('path', 'Path', { pattern: /^\\/a\\/b$/ }),",
		"TextAreaField('bio', 'Bio', {}),",
		"CurrencyField('price', 'Price', { currency: 'EUR' }),",
		"PasswordField('secret', 'Secret', { required: true, requireNumber: true }),",
		"export interface SignupData {",
		"  secret: string;",
		"  confirm?: string;",
		"export const matchValidator = (values: SignupData): string | undefined =>\n  values.secret !== values.confirm ? 'Passwords don\\'t match' : undefined;",
		"export const matchValidator_2 = (values: SignupData): string | undefined =>\n  (values.secret.length > 3) ? undefined : 'Validation failed';",
		"export function createSignupForm() {",
		"validators: [matchValidator, matchValidator_2],",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q\n%s", want, got)
		}
	}
	if strings.Contains(got, "([a-z") {
		t.Errorf("invalid pattern must be omitted")
	}
}

func TestSchemaEmptyForm(t *testing.T) {
	t.Parallel()

	got, err := Generate(model.FormDefinition{Settings: model.DefaultSettings()}, FormatSchema)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, want := range []string{
		"import { createForm } from '@formbuilder/schema';",
		"export interface FormData {\n}",
		"export const formFields = [\n];",
		"export function createForm() {",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q\n%s", want, got)
		}
	}
	if strings.Contains(got, "validators:") {
		t.Errorf("validators must be omitted when none are defined")
	}
}

func TestYAMLKeepsDocumentOrder(t *testing.T) {
	t.Parallel()

	def := testsupport.SampleDefinition()
	got, err := Generate(def, FormatYAML)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(got, "\nfields:\n  - type: text\n") {
		t.Fatalf("expected block style output:\n%s", got)
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(got), &root); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	var keys []string
	mapping := root.Content[0]
	for i := 0; i < len(mapping.Content); i += 2 {
		keys = append(keys, mapping.Content[i].Value)
	}
	if diff := cmp.Diff([]string{"name", "description", "fields", "groups", "settings", "crossValidators"}, keys); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}

	var fromYAML, fromJSON any
	if err := yaml.Unmarshal([]byte(got), &fromYAML); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	jsonText, _ := Generate(def, FormatJSON)
	if err := json.Unmarshal([]byte(jsonText), &fromJSON); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	normalised, _ := json.Marshal(fromYAML)
	var roundTripped any
	_ = json.Unmarshal(normalised, &roundTripped)
	if diff := cmp.Diff(fromJSON, roundTripped); diff != "" {
		t.Fatalf("yaml content differs from json (-json +yaml):\n%s", diff)
	}
}

func TestOpenAPISchemaValidatesSubmissions(t *testing.T) {
	t.Parallel()

	maxAge := 120.0
	def := model.FormDefinition{
		Name: "Profile",
		Fields: []model.FieldDefinition{
			{Type: model.FieldTypeText, Name: "name", Label: "Name", Order: 0, Config: model.Config{Required: true}},
			{Type: model.FieldTypeNumber, Name: "age", Label: "Age", Order: 1, Config: model.Config{Max: &maxAge, Integer: true}},
			{Type: model.FieldTypeSelect, Name: "plan", Label: "Plan", Order: 2, Config: model.Config{Options: []model.Option{{Label: "Free", Value: "free"}, {Label: "Pro", Value: "pro"}}}},
			{Type: model.FieldTypeHTML, Name: "note", Label: "Note", Order: 3},
		},
	}

	schema := DataSchema(def)
	if _, ok := schema.Properties["note"]; ok {
		t.Fatalf("static content must not be part of the data schema")
	}
	if diff := cmp.Diff([]string{"name"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}

	if err := schema.VisitJSON(map[string]any{"name": "Ada", "age": float64(36), "plan": "pro"}); err != nil {
		t.Fatalf("expected valid submission: %v", err)
	}
	if err := schema.VisitJSON(map[string]any{"age": float64(36)}); err == nil {
		t.Fatalf("expected missing required field to fail")
	}
	if err := schema.VisitJSON(map[string]any{"name": "Ada", "age": float64(130)}); err == nil {
		t.Fatalf("expected max violation to fail")
	}
	if err := schema.VisitJSON(map[string]any{"name": "Ada", "plan": "gold"}); err == nil {
		t.Fatalf("expected enum violation to fail")
	}

	text, err := Generate(def, FormatOpenAPI)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		t.Fatalf("decode openapi: %v", err)
	}
	if decoded["title"] != "Profile" {
		t.Fatalf("unexpected schema header %v", decoded)
	}
}

func TestSanitizeContentStripsScripts(t *testing.T) {
	t.Parallel()

	def := testsupport.SampleDefinition()
	if err := SanitizeContent().Decorate(&def); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if got := def.Fields[3].Config.Content; got != "<p>Hi</p>" {
		t.Fatalf("unexpected sanitised content %q", got)
	}
}

func TestSchemaOptions(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"schema.tpl": &fstest.MapFile{Data: []byte("{{ module|safe }}|{{ formName|safe }}")},
	}
	rename := model.DecoratorFunc(func(def *model.FormDefinition) error {
		def.Name = "Renamed"
		return nil
	})
	generator, err := NewSchemaGenerator(WithModule("@acme/forms"), WithTemplates(files), WithDecorators(rename))
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	def := testsupport.SampleDefinition()
	got, err := generator.Generate(def)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if want := quote("@acme/forms") + "|" + quote("Renamed"); got != want {
		t.Fatalf("unexpected output\nwant %s\ngot  %s", want, got)
	}
	if def.Name != "Contact Form" {
		t.Fatalf("decorator leaked into the input: %q", def.Name)
	}

	boom := errors.New("boom")
	failing, err := NewSchemaGenerator(WithDecorators(model.DecoratorFunc(func(*model.FormDefinition) error { return boom })))
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	if _, err := failing.Generate(def); !errors.Is(err, boom) {
		t.Fatalf("expected decorator error, got %v", err)
	}
}

func TestPatternsFollowECMAScript(t *testing.T) {
	t.Parallel()

	def := model.FormDefinition{
		Name:     "Account",
		Settings: model.DefaultSettings(),
		Fields: []model.FieldDefinition{
			{Type: model.FieldTypePassword, Name: "pw", Label: "PW", Order: 0, Config: model.Config{Pattern: `^(?=.*[A-Z]).{8,}$`}},
			{Type: model.FieldTypeText, Name: "twice", Label: "Twice", Order: 1, Config: model.Config{Pattern: `^(a+)\1$`}},
		},
	}

	got, err := Generate(def, FormatSchema)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, want := range []string{
		"PasswordField('pw', 'PW', { pattern: /^(?=.*[A-Z]).{8,}$/ }),",
		"TextField('twice', 'Twice', { pattern: /^(a+)\\1$/ }),",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q\n%s", want, got)
		}
	}

	schema := DataSchema(def)
	if got := schema.Properties["pw"].Value.Pattern; got != `^(?=.*[A-Z]).{8,}$` {
		t.Fatalf("expected lookahead pattern in data schema, got %q", got)
	}
}

func TestSchemaEmitsDefaultValues(t *testing.T) {
	t.Parallel()

	def := model.FormDefinition{
		Name:     "Defaults",
		Settings: model.DefaultSettings(),
		Fields: []model.FieldDefinition{
			{Type: model.FieldTypeHidden, Name: "ref", Label: "Ref", Order: 0, Config: model.Config{DefaultValue: "abc"}},
			{Type: model.FieldTypeCheckbox, Name: "agree", Label: "Agree", Order: 1, Config: model.Config{DefaultValue: true}},
			{Type: model.FieldTypeNumber, Name: "qty", Label: "Qty", Order: 2, Config: model.Config{DefaultValue: 3}},
			{Type: model.FieldTypeMultiSelect, Name: "tags", Label: "Tags", Order: 3, Config: model.Config{DefaultValue: []string{"a", "it's"}}},
			{Type: model.FieldTypeCalculated, Name: "total", Label: "Total", Order: 4, Config: model.Config{Formula: "qty * 2", DefaultValue: 9}},
		},
	}

	got, err := Generate(def, FormatSchema)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, want := range []string{
		"HiddenField('ref', 'Ref', { defaultValue: 'abc' }),",
		"CheckboxField('agree', 'Agree', { defaultValue: true }),",
		"NumberField('qty', 'Qty', { defaultValue: 3 }),",
		`MultiSelectField('tags', 'Tags', { defaultValue: ['a', 'it\'s'] }),`,
		"CalculatedField('total', 'Total', { formula: 'qty * 2' }),",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q\n%s", want, got)
		}
	}
}

func TestJSLiteral(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want string
	}{
		{in: nil, want: "null"},
		{in: 1.5, want: "1.5"},
		{in: "x\ny", want: `'x\ny'`},
		{in: []any{1, "a", nil}, want: "[1, 'a', null]"},
		{in: map[string]any{"b": false, "a-b": 1}, want: "{ 'a-b': 1, b: false }"},
		{in: map[string]any{}, want: "{}"},
	}
	for _, tc := range cases {
		got, ok := jsLiteral(tc.in)
		if !ok || got != tc.want {
			t.Fatalf("jsLiteral(%v) = %q, %v, want %q", tc.in, got, ok, tc.want)
		}
	}
	if _, ok := jsLiteral(func() {}); ok {
		t.Fatalf("expected functions to be rejected")
	}
}
