package codegen

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

// DefaultSchemaModule is the import path the generated source pulls field
// constructors from.
const DefaultSchemaModule = "@formbuilder/schema"

const schemaTemplate = "schema"

// SchemaOption customises the schema generator.
type SchemaOption func(*schemaConfig)

type schemaConfig struct {
	module     string
	templates  fs.FS
	decorators []model.Decorator
}

// WithModule overrides the import path of the generated source.
func WithModule(module string) SchemaOption {
	return func(cfg *schemaConfig) {
		if trimmed := strings.TrimSpace(module); trimmed != "" {
			cfg.module = trimmed
		}
	}
}

// WithTemplates replaces the built-in templates. files must provide
// schema.tpl.
func WithTemplates(files fs.FS) SchemaOption {
	return func(cfg *schemaConfig) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithDecorators appends decorators run on a copy of the definition before
// rendering.
func WithDecorators(decorators ...model.Decorator) SchemaOption {
	return func(cfg *schemaConfig) {
		for _, decorator := range decorators {
			if decorator != nil {
				cfg.decorators = append(cfg.decorators, decorator)
			}
		}
	}
}

type schemaGenerator struct {
	cfg    schemaConfig
	engine *templateEngine
}

// NewSchemaGenerator returns the typed-schema generator. html block content
// is sanitised before any custom decorators run.
func NewSchemaGenerator(opts ...SchemaOption) (Generator, error) {
	cfg := schemaConfig{
		module:     DefaultSchemaModule,
		templates:  Templates(),
		decorators: []model.Decorator{SanitizeContent()},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	engine, err := newTemplateEngine("codegen", cfg.templates)
	if err != nil {
		return nil, err
	}
	return &schemaGenerator{cfg: cfg, engine: engine}, nil
}

func (g *schemaGenerator) Format() string { return FormatSchema }

func (g *schemaGenerator) Generate(def model.FormDefinition) (string, error) {
	def = def.Clone()
	for _, decorator := range g.cfg.decorators {
		if err := decorator.Decorate(&def); err != nil {
			return "", fmt.Errorf("codegen: decorate: %w", err)
		}
	}
	view := buildSchemaView(def, g.cfg.module)
	return g.engine.render(schemaTemplate, view.context())
}

type schemaSection struct {
	Header string
	Lines  []string
}

type schemaValidator struct {
	Name string
	Body string
}

type schemaView struct {
	header         []string
	imports        string
	module         string
	dataType       string
	dataFields     []string
	fieldsConst    string
	sections       []schemaSection
	validators     []schemaValidator
	validatorNames string
	factory        string
	formName       string
	settings       string
}

func (v schemaView) context() pongo2.Context {
	return pongo2.Context{
		"header":         v.header,
		"imports":        v.imports,
		"module":         quote(v.module),
		"dataType":       v.dataType,
		"dataFields":     v.dataFields,
		"fieldsConst":    v.fieldsConst,
		"sections":       v.sections,
		"validators":     v.validators,
		"validatorNames": v.validatorNames,
		"factory":        v.factory,
		"formName":       quote(v.formName),
		"settings":       v.settings,
	}
}

func buildSchemaView(def model.FormDefinition, module string) schemaView {
	base := pascalCase(def.Name, "Form")
	factory := "create" + base
	if !strings.HasSuffix(base, "Form") {
		factory += "Form"
	}
	view := schemaView{
		module:      module,
		dataType:    base + "Data",
		fieldsConst: camelCase(base, "form") + "Fields",
		factory:     factory,
		formName:    def.Name,
		settings:    settingsLiteral(def.Settings),
	}

	view.header = []string{"Generated form schema: " + comment(def.Name)}
	if desc := comment(def.Description); desc != "" {
		view.header = append(view.header, desc)
	}

	classes := map[string]struct{}{}
	for _, section := range def.Sections() {
		if len(section.Fields) == 0 {
			continue
		}
		out := schemaSection{}
		if section.Group != nil {
			title := section.Group.Label
			if strings.TrimSpace(title) == "" {
				title = section.Group.Name
			}
			out.Header = "Group: " + comment(title)
		}
		for _, field := range section.Fields {
			spec, _ := model.LookupType(field.Type)
			classes[spec.Class] = struct{}{}
			out.Lines = append(out.Lines, fieldConstructor(field, spec))
			if spec.Primitive == "" {
				continue
			}
			optional := "?"
			if field.Config.Required {
				optional = ""
			}
			view.dataFields = append(view.dataFields, propertyKey(field.Name)+optional+": "+spec.Primitive+";")
		}
		view.sections = append(view.sections, out)
	}

	names := make([]string, 0, len(classes)+1)
	for class := range classes {
		names = append(names, class)
	}
	sort.Strings(names)
	view.imports = strings.Join(append([]string{"createForm"}, names...), ", ")

	taken := map[string]bool{}
	var validatorNames []string
	for _, validator := range def.CrossValidators {
		label := validator.Name
		if strings.TrimSpace(label) == "" {
			label = string(validator.Type)
		}
		name := model.UniqueName(camelCase(label, "cross")+"Validator", func(s string) bool { return taken[s] })
		taken[name] = true
		validatorNames = append(validatorNames, name)
		view.validators = append(view.validators, schemaValidator{Name: name, Body: validatorBody(validator)})
	}
	view.validatorNames = strings.Join(validatorNames, ", ")
	return view
}

func fieldConstructor(field model.FieldDefinition, spec model.TypeSpec) string {
	return spec.Class + "(" + quote(field.Name) + ", " + quote(field.Label) + ", " + optionsLiteral(field.Config, spec) + ")"
}

// optionsLiteral renders the constructor options from the config keys the
// type recognises, skipping unset and default values.
func optionsLiteral(cfg model.Config, spec model.TypeSpec) string {
	var entries []string
	add := func(key, value string) {
		if spec.Recognises(key) {
			entries = append(entries, key+": "+value)
		}
	}
	addInt := func(key string, v *int) {
		if v != nil {
			add(key, strconv.Itoa(*v))
		}
	}
	addFloat := func(key string, v *float64) {
		if v != nil {
			add(key, formatNumber(*v))
		}
	}
	addBool := func(key string, v bool) {
		if v {
			add(key, "true")
		}
	}
	addString := func(key, v string) {
		if v != "" {
			add(key, quote(v))
		}
	}

	addBool("required", cfg.Required)
	addInt("minLength", cfg.MinLength)
	addInt("maxLength", cfg.MaxLength)
	addFloat("min", cfg.Min)
	addFloat("max", cfg.Max)
	addFloat("step", cfg.Step)
	if cfg.Pattern != "" {
		if model.ValidPattern(cfg.Pattern) {
			add("pattern", regexLiteral(cfg.Pattern))
		}
	}
	addString("placeholder", cfg.Placeholder)
	addString("hint", cfg.Hint)
	if cfg.DefaultValue != nil {
		if literal, ok := jsLiteral(cfg.DefaultValue); ok {
			add("defaultValue", literal)
		}
	}
	if len(cfg.Options) > 0 {
		items := make([]string, len(cfg.Options))
		for i, option := range cfg.Options {
			items[i] = "{ label: " + quote(option.Label) + ", value: " + quote(option.Value) + " }"
		}
		add("options", "["+strings.Join(items, ", ")+"]")
	}
	if cfg.Rows != nil && *cfg.Rows != model.DefaultRows {
		add("rows", strconv.Itoa(*cfg.Rows))
	}
	if cfg.Currency != "" && cfg.Currency != model.DefaultCurrency {
		add("currency", quote(cfg.Currency))
	}
	addBool("integer", cfg.Integer)
	addBool("requireUppercase", cfg.RequireUppercase)
	addBool("requireLowercase", cfg.RequireLowercase)
	addBool("requireNumber", cfg.RequireNumber)
	addBool("requireSpecial", cfg.RequireSpecial)
	addString("accept", cfg.Accept)
	if cfg.MaxSize != nil {
		add("maxSize", strconv.FormatInt(*cfg.MaxSize, 10))
	}
	addBool("multiple", cfg.Multiple)
	addString("formula", cfg.Formula)
	addString("content", cfg.Content)
	for _, kind := range model.RuleKinds() {
		if rule := cfg.Rule(kind); rule != nil {
			add(string(kind), doubleQuote(RuleExpression(*rule)))
		}
	}

	if len(entries) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(entries, ", ") + " }"
}

// RuleExpression renders rule as a boolean source expression over bare field
// references. Rules that cannot match render as false.
func RuleExpression(rule model.ConditionalRule) string {
	name := strings.TrimSpace(rule.Field)
	if name == "" || rule.Operator == "" {
		return "false"
	}
	ref := name
	if !isIdentifier(name) {
		ref = access("values", name)
	}

	switch rule.Operator {
	case model.OperatorEquals:
		return ref + " === " + literal(rule.Value)
	case model.OperatorNotEquals:
		return ref + " !== " + literal(rule.Value)
	case model.OperatorContains:
		s, ok := rule.Value.(string)
		if !ok {
			return "false"
		}
		return "typeof " + ref + " === 'string' && " + ref + ".toLowerCase().includes(" + quote(strings.ToLower(s)) + ")"
	case model.OperatorGreaterThan, model.OperatorLessThan:
		n := visibility.ToNumber(rule.Value)
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "false"
		}
		op := " > "
		if rule.Operator == model.OperatorLessThan {
			op = " < "
		}
		return "Number(" + ref + ")" + op + formatNumber(n)
	case model.OperatorIsEmpty:
		return "!" + ref + " || " + ref + " === ''"
	case model.OperatorIsNotEmpty:
		return "!!" + ref + " && " + ref + " !== ''"
	default:
		return "false"
	}
}

// literal renders a rule value as a source literal.
func literal(v any) string {
	switch value := v.(type) {
	case nil:
		return "undefined"
	case string:
		return quote(value)
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return formatNumber(value)
	case float32:
		return formatNumber(float64(value))
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case json.Number:
		return value.String()
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return "undefined"
		}
		return string(data)
	}
}

func validatorBody(validator model.CrossValidatorDef) string {
	message := validator.Message
	if strings.TrimSpace(message) == "" {
		message = "Validation failed"
	}
	msg := quote(message)

	switch validator.Type {
	case model.ValidatorFieldsMatch:
		if len(validator.Fields) < 2 {
			return "undefined"
		}
		first := access("values", validator.Fields[0])
		checks := make([]string, 0, len(validator.Fields)-1)
		for _, name := range validator.Fields[1:] {
			checks = append(checks, first+" !== "+access("values", name))
		}
		return strings.Join(checks, " || ") + " ? " + msg + " : undefined"
	case model.ValidatorAtLeastOne:
		if len(validator.Fields) == 0 {
			return "undefined"
		}
		reads := make([]string, len(validator.Fields))
		for i, name := range validator.Fields {
			reads[i] = access("values", name)
		}
		return "!(" + strings.Join(reads, " || ") + ") ? " + msg + " : undefined"
	case model.ValidatorCustom:
		if strings.TrimSpace(validator.CustomExpression) == "" {
			return "undefined"
		}
		return "(" + validator.CustomExpression + ") ? undefined : " + msg
	default:
		return "undefined"
	}
}

func settingsLiteral(s model.FormSettings) string {
	entries := []string{
		"layout: " + quote(s.Layout),
		"labelPosition: " + quote(s.LabelPosition),
		"size: " + quote(s.Size),
		"validateOn: " + quote(s.ValidateOn),
		"showRequiredIndicator: " + strconv.FormatBool(s.ShowRequiredIndicator),
		"showResetButton: " + strconv.FormatBool(s.ShowResetButton),
		"submitButtonText: " + quote(s.SubmitButtonText),
		"resetButtonText: " + quote(s.ResetButtonText),
		"columns: " + strconv.Itoa(s.Columns),
	}
	return "{ " + strings.Join(entries, ", ") + " }"
}
