package value

import "strings"

// Object is a vector of element pointers. Copies share the pointers; element
// state is reached identically through every copy.
type Object struct {
	flags
	ElementName string
	Elements    []Element
}

func NewObject(elementName string, elems ...Element) *Object {
	return &Object{ElementName: elementName, Elements: elems}
}

func (o *Object) Kind() Kind { return KindObject }
func (o *Object) Count() int { return len(o.Elements) }

func (o *Object) Copy() Value {
	elems := make([]Element, len(o.Elements))
	copy(elems, o.Elements)
	return &Object{ElementName: o.ElementName, Elements: elems}
}

func (o *Object) Borrow() Value {
	b := *o
	b.owner = BorrowedEphemeral
	return &b
}

func (o *Object) NewMatching() Value {
	return &Object{ElementName: o.ElementName}
}

func (o *Object) PushFromIndex(src Value, i int) error {
	if err := o.canMutate(); err != nil {
		return err
	}
	s, ok := src.(*Object)
	if !ok {
		return Internalf("push from %s into object", src.Kind())
	}
	if o.ElementName != s.ElementName && len(o.Elements) > 0 {
		return Scriptf(-1, -1, "object element types %s and %s cannot be mixed", o.ElementName, s.ElementName)
	}
	o.ElementName = s.ElementName
	o.Elements = append(o.Elements, s.Elements[i])
	return nil
}

func (o *Object) ValueAt(i int) Value {
	return &Object{ElementName: o.ElementName, Elements: []Element{o.Elements[i]}}
}

func (o *Object) SetAt(i int, e Element) error {
	if err := o.canMutate(); err != nil {
		return err
	}
	o.Elements[i] = e
	return nil
}

func (o *Object) String() string {
	parts := make([]string, len(o.Elements))
	for i, e := range o.Elements {
		parts[i] = "<" + e.ElementType() + ">"
	}
	return strings.Join(parts, " ")
}
