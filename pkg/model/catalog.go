package model

// TypeSpec describes how a field type maps onto the typed-schema output and
// which config keys it recognises.
type TypeSpec struct {
	Type      FieldType
	Class     string
	Primitive string
	Keys      []string
}

// Recognises reports whether key is meaningful for the type.
func (s TypeSpec) Recognises(key string) bool {
	for _, candidate := range s.Keys {
		if candidate == key {
			return true
		}
	}
	return false
}

const (
	// DefaultClass is the constructor used for unknown field types.
	DefaultClass = "TextField"
	// DefaultPrimitive is the data-shape type used for unknown field types.
	DefaultPrimitive = "string"
	// DefaultRows is the textarea height emitted only when overridden.
	DefaultRows = 4
	// DefaultCurrency is the currency emitted only when overridden.
	DefaultCurrency = "USD"
)

var (
	commonKeys   = []string{"required", "placeholder", "hint", "defaultValue", "showWhen", "hideWhen", "disableWhen"}
	textKeys     = []string{"minLength", "maxLength", "pattern"}
	numericKeys  = []string{"min", "max", "step", "integer"}
	optionKeys   = []string{"options"}
	passwordKeys = []string{"minLength", "maxLength", "pattern", "requireUppercase", "requireLowercase", "requireNumber", "requireSpecial"}
	fileKeys     = []string{"accept", "maxSize", "multiple"}
)

func keys(groups ...[]string) []string {
	var out []string
	for _, group := range groups {
		out = append(out, group...)
	}
	return out
}

var catalog = []TypeSpec{
	{Type: FieldTypeText, Class: "TextField", Primitive: "string", Keys: keys(commonKeys, textKeys)},
	{Type: FieldTypeEmail, Class: "EmailField", Primitive: "string", Keys: keys(commonKeys, textKeys)},
	{Type: FieldTypePassword, Class: "PasswordField", Primitive: "string", Keys: keys(commonKeys, passwordKeys)},
	{Type: FieldTypeNumber, Class: "NumberField", Primitive: "number", Keys: keys(commonKeys, numericKeys)},
	{Type: FieldTypeTextArea, Class: "TextAreaField", Primitive: "string", Keys: keys(commonKeys, textKeys, []string{"rows"})},
	{Type: FieldTypeSelect, Class: "SelectField", Primitive: "string", Keys: keys(commonKeys, optionKeys)},
	{Type: FieldTypeMultiSelect, Class: "MultiSelectField", Primitive: "string[]", Keys: keys(commonKeys, optionKeys)},
	{Type: FieldTypeCheckbox, Class: "CheckboxField", Primitive: "boolean", Keys: commonKeys},
	{Type: FieldTypeRadio, Class: "RadioField", Primitive: "string", Keys: keys(commonKeys, optionKeys)},
	{Type: FieldTypeSwitch, Class: "SwitchField", Primitive: "boolean", Keys: commonKeys},
	{Type: FieldTypeDate, Class: "DateField", Primitive: "Date | string", Keys: commonKeys},
	{Type: FieldTypeTime, Class: "TimeField", Primitive: "string", Keys: commonKeys},
	{Type: FieldTypeDateTime, Class: "DateTimeField", Primitive: "Date | string", Keys: commonKeys},
	{Type: FieldTypeFile, Class: "FileField", Primitive: "File | File[]", Keys: keys(commonKeys, fileKeys)},
	{Type: FieldTypePhone, Class: "PhoneField", Primitive: "string", Keys: keys(commonKeys, textKeys)},
	{Type: FieldTypeURL, Class: "URLField", Primitive: "string", Keys: keys(commonKeys, textKeys)},
	{Type: FieldTypeCurrency, Class: "CurrencyField", Primitive: "number", Keys: keys(commonKeys, []string{"min", "max", "step", "currency"})},
	{Type: FieldTypeRating, Class: "RatingField", Primitive: "number", Keys: keys(commonKeys, []string{"min", "max"})},
	{Type: FieldTypeSlider, Class: "SliderField", Primitive: "number", Keys: keys(commonKeys, numericKeys)},
	{Type: FieldTypeColor, Class: "ColorField", Primitive: "string", Keys: commonKeys},
	{Type: FieldTypeHidden, Class: "HiddenField", Primitive: "string", Keys: []string{"defaultValue"}},
	{Type: FieldTypeSignature, Class: "SignatureField", Primitive: "string", Keys: commonKeys},
	{Type: FieldTypeCalculated, Class: "CalculatedField", Primitive: "number", Keys: []string{"formula", "hint", "showWhen", "hideWhen"}},
	{Type: FieldTypeHTML, Class: "HTMLBlock", Primitive: "", Keys: []string{"content", "showWhen", "hideWhen"}},
}

var catalogIndex = func() map[FieldType]int {
	index := make(map[FieldType]int, len(catalog))
	for i, spec := range catalog {
		index[spec.Type] = i
	}
	return index
}()

// LookupType returns the catalogue entry for t. Unknown types resolve to a
// spec using the generic string-field class with every typed key permitted.
func LookupType(t FieldType) (TypeSpec, bool) {
	if idx, ok := catalogIndex[t]; ok {
		return catalog[idx], true
	}
	return TypeSpec{Type: t, Class: DefaultClass, Primitive: DefaultPrimitive, Keys: ConfigKeys()}, false
}

// FieldTypes lists the catalogued types in declaration order.
func FieldTypes() []FieldType {
	out := make([]FieldType, len(catalog))
	for i, spec := range catalog {
		out[i] = spec.Type
	}
	return out
}

// CollectsValue reports whether a field of type t contributes a value to the
// submitted data. Static content blocks do not.
func CollectsValue(t FieldType) bool {
	spec, _ := LookupType(t)
	return spec.Primitive != ""
}
