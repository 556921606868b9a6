package guilded

import (
	"encoding/json"
	"path"
	"strings"

	"github.com/tinyland-inc/bridgeclaw/pkg/logger"
	"github.com/tinyland-inc/bridgeclaw/pkg/relay"
)

// Node is one element of Guilded's slate-style rich text tree. The same
// struct covers documents, blocks, inlines, text nodes and leaves; the
// Object field discriminates.
type Node struct {
	Object string          `json:"object"`
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data"`
	Nodes  []Node          `json:"nodes"`
	Leaves []Node          `json:"leaves"`
	Text   string          `json:"text"`
}

// ExtractContent walks a rich text document and accumulates its plain
// text, plus attachment references for embedded media. Unknown node kinds
// are skipped, never fatal: new editor features must not break relaying.
func ExtractContent(doc Node) (string, []relay.Attachment) {
	var w contentWalker
	w.walk(doc)
	return strings.TrimRight(w.text.String(), "\n"), w.attachments
}

type contentWalker struct {
	text        strings.Builder
	attachments []relay.Attachment
}

func (w *contentWalker) walk(n Node) {
	switch n.Object {
	case "document":
		for _, child := range n.Nodes {
			w.walk(child)
		}
	case "block":
		if w.mediaBlock(n) {
			return
		}
		for _, child := range n.Nodes {
			w.walk(child)
		}
		// Blocks are line-shaped; separate them.
		w.text.WriteString("\n")
	case "inline":
		for _, child := range n.Nodes {
			w.walk(child)
		}
	case "text":
		for _, leaf := range n.Leaves {
			w.walk(leaf)
		}
	case "leaf":
		w.text.WriteString(n.Text)
	default:
		logger.DebugCF("guilded_richtext", "Skipping unknown node", map[string]any{
			"object": n.Object,
			"type":   n.Type,
		})
	}
}

// mediaBlock captures image/file blocks as attachments instead of text.
func (w *contentWalker) mediaBlock(n Node) bool {
	if n.Type != "image" && n.Type != "file" {
		return false
	}
	var data struct {
		Src      string `json:"src"`
		FileName string `json:"fileName"`
	}
	if err := json.Unmarshal(n.Data, &data); err != nil || data.Src == "" {
		return false
	}
	name := data.FileName
	if name == "" {
		name = path.Base(data.Src)
	}
	w.attachments = append(w.attachments, relay.Attachment{Filename: name, URL: data.Src})
	return true
}
