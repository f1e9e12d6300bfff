package models

// WidgetKind is the declared semantic type of a schema field.
type WidgetKind string

const (
	WidgetBoolean  WidgetKind = "boolean"
	WidgetCode     WidgetKind = "code"
	WidgetColor    WidgetKind = "color"
	WidgetDatetime WidgetKind = "datetime"
	WidgetFile     WidgetKind = "file"
	WidgetHidden   WidgetKind = "hidden"
	WidgetImage    WidgetKind = "image"
	WidgetList     WidgetKind = "list"
	WidgetMap      WidgetKind = "map"
	WidgetMarkdown WidgetKind = "markdown"
	WidgetNumber   WidgetKind = "number"
	WidgetObject   WidgetKind = "object"
	WidgetRelation WidgetKind = "relation"
	WidgetSelect   WidgetKind = "select"
	WidgetString   WidgetKind = "string"
	WidgetText     WidgetKind = "text"
)

// WidgetClass groups widget kinds that every schema consumer treats alike.
type WidgetClass int

const (
	ClassUnknown WidgetClass = iota
	ClassBoolean
	ClassText
	ClassNumber
	ClassList
	ClassObject
	ClassRelation
	ClassSelect
)

var widgetClasses = map[WidgetKind]WidgetClass{
	WidgetBoolean:  ClassBoolean,
	WidgetCode:     ClassText,
	WidgetColor:    ClassText,
	WidgetDatetime: ClassText,
	WidgetFile:     ClassText,
	WidgetHidden:   ClassText,
	WidgetImage:    ClassText,
	WidgetMap:      ClassText,
	WidgetMarkdown: ClassText,
	WidgetString:   ClassText,
	WidgetText:     ClassText,
	WidgetNumber:   ClassNumber,
	WidgetList:     ClassList,
	WidgetObject:   ClassObject,
	WidgetRelation: ClassRelation,
	WidgetSelect:   ClassSelect,
}

// Class maps the kind onto its class; unrecognised kinds are ClassUnknown.
func (k WidgetKind) Class() WidgetClass {
	return widgetClasses[k]
}

// FieldVisitor is implemented by every consumer of the schema: the type
// compiler, the default-content synthesizer and the relation index builder.
// Adding a widget class means adding a method here, which breaks all three
// until they handle it.
type FieldVisitor[T any] interface {
	VisitBoolean(f *Field) T
	VisitText(f *Field) T
	VisitNumber(f *Field) T
	VisitList(f *Field) T
	VisitObject(f *Field) T
	VisitRelation(f *Field) T
	VisitSelect(f *Field) T
	VisitUnknown(f *Field) T
}

// Visit dispatches f to the visitor method matching its widget class.
func Visit[T any](f *Field, v FieldVisitor[T]) T {
	switch f.Widget.Class() {
	case ClassBoolean:
		return v.VisitBoolean(f)
	case ClassText:
		return v.VisitText(f)
	case ClassNumber:
		return v.VisitNumber(f)
	case ClassList:
		return v.VisitList(f)
	case ClassObject:
		return v.VisitObject(f)
	case ClassRelation:
		return v.VisitRelation(f)
	case ClassSelect:
		return v.VisitSelect(f)
	default:
		return v.VisitUnknown(f)
	}
}
