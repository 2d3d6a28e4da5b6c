package preview

import (
	"bytes"
	"encoding/xml"
	"io"
)

// node is a minimal element-tree view of a document.xml fragment: enough to
// walk descendants and read attributes/inline text the way roxmltree's
// Node did in the original renderer, without needing a full DOM library.
type node struct {
	tag      string
	attrs    map[string]string
	text     string
	children []*node
}

func (n *node) attr(local string) (string, bool) {
	v, ok := n.attrs[local]
	return v, ok
}

// firstChild returns the first direct child with the given tag.
func (n *node) firstChild(tag string) *node {
	for _, c := range n.children {
		if c.tag == tag {
			return c
		}
	}
	return nil
}

// descendants walks n and every node beneath it, preorder, including n
// itself (matching roxmltree's Node::descendants()).
func (n *node) descendants(visit func(*node)) {
	visit(n)
	for _, c := range n.children {
		c.descendants(visit)
	}
}

// parseNodeTree decodes an XML fragment and returns its first element (the
// document element) as the root node, with its full subtree; callers walk
// its descendants to find "p" nodes.
func parseNodeTree(data []byte) (*node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return decodeNode(dec, se)
		}
	}
}

func decodeNode(dec *xml.Decoder, start xml.StartElement) (*node, error) {
	n := &node{tag: start.Name.Local, attrs: map[string]string{}}
	for _, a := range start.Attr {
		n.attrs[a.Name.Local] = a.Value
	}

	var text bytes.Buffer
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeNode(dec, t)
			if err != nil {
				return nil, err
			}
			n.children = append(n.children, child)
		case xml.EndElement:
			n.text = text.String()
			return n, nil
		case xml.CharData:
			text.Write(t)
		}
	}
}
