// Package widget builds the declarative component trees the frontend renders.
// The tree shape (component, props, text, content) is owned by the frontend;
// this package only fills it in.
package widget

// Props holds a component's properties. Values must be JSON-encodable.
type Props map[string]any

// Node is one component in a widget tree.
type Node struct {
	Component string `json:"component"`
	Props     Props  `json:"props,omitempty"`
	Text      string `json:"text,omitempty"`
	Content   []Node `json:"content,omitempty"`
}

// El is shorthand for a node with children.
func El(component string, props Props, children ...Node) Node {
	return Node{Component: component, Props: props, Content: children}
}

// Text is shorthand for a leaf node carrying text.
func Text(component string, props Props, text string) Node {
	return Node{Component: component, Props: props, Text: text}
}

// class is shorthand for the common single-class props.
func class(c string) Props {
	return Props{"class": c}
}
