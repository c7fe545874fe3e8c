package formatter

import (
	"context"
	"errors"
	"strings"

	"github.com/kataras/feishu-extractor/pkg/extractor"
)

// ErrFatal marks an image resolution error that must abort the document
// instead of degrading to a best-effort reference.
var ErrFatal = errors.New("fatal rendering error")

// ImageResolver turns an image token into the reference embedded in the
// Markdown output. It is called once per image block, sequentially.
// When it fails, a non-empty returned value is still embedded.
type ImageResolver interface {
	ResolveImage(ctx context.Context, documentID, token string) (string, error)
}

// ImageResolverFunc adapts a function to ImageResolver.
type ImageResolverFunc func(ctx context.Context, documentID, token string) (string, error)

func (f ImageResolverFunc) ResolveImage(ctx context.Context, documentID, token string) (string, error) {
	return f(ctx, documentID, token)
}

// Logger receives non-fatal rendering warnings.
type Logger interface {
	Warnf(format string, args ...any)
}

// Renderer converts a document's block tree into Markdown.
// The zero value is not usable, use NewRenderer.
type Renderer struct {
	images ImageResolver
	logger Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithImageResolver sets the image resolution collaborator. Without one
// the raw image token is embedded.
func WithImageResolver(resolver ImageResolver) Option {
	return func(r *Renderer) {
		r.images = resolver
	}
}

// WithLogger sets the logger for non-fatal warnings.
func WithLogger(logger Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// NewRenderer returns a Renderer configured by opts.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render renders the whole document starting at its root block.
func (r *Renderer) Render(ctx context.Context, documentID string, blocks *extractor.Map) (string, error) {
	return r.RenderBlock(ctx, documentID, blocks.Root(), blocks, 0, 0)
}

// RenderBlock renders b and, recursively, its subtree. depth is the
// nesting level of b (root = 0) and siblingOrder its index among its
// parent's children. A nil block renders empty.
func (r *Renderer) RenderBlock(ctx context.Context, documentID string, b *extractor.Block, blocks *extractor.Map, depth, siblingOrder int) (string, error) {
	if b == nil {
		return "", nil
	}

	var sb strings.Builder

	own, err := r.ownContent(ctx, documentID, b, blocks, depth, siblingOrder)
	if err != nil {
		return "", err
	}
	sb.WriteString(own)

	if layout, ok := layoutOf(b); ok {
		table, err := r.renderTable(ctx, documentID, layout, blocks)
		if err != nil {
			return "", err
		}
		sb.WriteString(table)
	} else {
		for i, childID := range b.Children {
			child, _ := blocks.Get(childID)
			content, err := r.RenderBlock(ctx, documentID, child, blocks, depth+1, i)
			if err != nil {
				return "", err
			}
			sb.WriteString(content)
			sb.WriteString(childSeparator(b.Type))
		}
	}

	out := sb.String()
	if b.Type == extractor.TypeCallout {
		out = quoteLines(out)
	}
	return out, nil
}

// ownContent renders the block's own content, without its children.
func (r *Renderer) ownContent(ctx context.Context, documentID string, b *extractor.Block, blocks *extractor.Map, depth, siblingOrder int) (string, error) {
	switch b.Type {
	case extractor.TypeText:
		if text, ok := b.Payload.(extractor.Text); ok {
			return InlineText(text.Runs), nil
		}

	case extractor.TypeHeading:
		if h, ok := b.Payload.(extractor.Heading); ok {
			return strings.Repeat("#", h.Level) + " " + PlainText(h.Runs) + "\n", nil
		}

	case extractor.TypeBullet:
		if bullet, ok := b.Payload.(extractor.Bullet); ok {
			return "* " + InlineText(bullet.Runs) + listBreak(b), nil
		}

	case extractor.TypeOrdered:
		if ordered, ok := b.Payload.(extractor.Ordered); ok {
			seq := ordered.Sequence
			if seq == extractor.AutoSequence {
				seq = ResolveSequence(siblingsOf(b, blocks), b.ID, siblingOrder, depth, blocks)
			}
			indent := strings.Repeat("\t", max(depth-1, 0))
			return indent + seq + ". " + InlineText(ordered.Runs) + listBreak(b), nil
		}

	case extractor.TypeImage:
		if img, ok := b.Payload.(extractor.Image); ok {
			ref, err := r.resolveImage(ctx, documentID, img.Token)
			if err != nil {
				return "", err
			}
			return "![image](" + ref + ")", nil
		}

	case extractor.TypeBlockquote:
		return "> ", nil
	}

	// root, containers, callouts and unknown types have no own content.
	return "", nil
}

func (r *Renderer) resolveImage(ctx context.Context, documentID, token string) (string, error) {
	if r.images == nil {
		return token, nil
	}

	ref, err := r.images.ResolveImage(ctx, documentID, token)
	if err != nil {
		if errors.Is(err, ErrFatal) {
			return "", err
		}
		r.warnf("image %s of document %s: %v", token, documentID, err)
	}
	if ref == "" {
		return token, nil
	}
	return ref, nil
}

func (r *Renderer) warnf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Warnf(format, args...)
	}
}

func siblingsOf(b *extractor.Block, blocks *extractor.Map) []string {
	parent, ok := blocks.Get(b.ParentID)
	if !ok {
		return nil
	}
	return parent.Children
}

// listBreak ends a list item's own line when nested content follows.
func listBreak(b *extractor.Block) string {
	if len(b.Children) > 0 {
		return "\n"
	}
	return ""
}

func childSeparator(parent extractor.Type) string {
	switch parent {
	case extractor.TypeColumn:
		return "<br>"
	case extractor.TypeTableCell, extractor.TypeBlockquote:
		return ""
	default:
		return "\n"
	}
}

func quoteLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}
