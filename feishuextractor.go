package feishuextractor

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kataras/feishu-extractor/pkg/extractor"
	"github.com/kataras/feishu-extractor/pkg/feishu"
	"github.com/kataras/feishu-extractor/pkg/formatter"
	"github.com/kataras/feishu-extractor/pkg/imager"
)

// Options configures the extraction.
type Options struct {
	AppID      string
	AppSecret  string
	BaseURL    string       // empty = feishu.DefaultBaseURL
	HTTPClient *http.Client // nil = default client

	DocURL      string // a single docx document
	FolderToken string // every docx document of a drive folder, used when DocURL is empty
	PageSize    int    // folder listing page size, default 200
	PageCount   int    // max folder listing pages, default 3

	ImageDir string // images go to <ImageDir>/<documentID>_images, default "."

	// ShouldHandle is asked before each task; false or an error skips it.
	// nil accepts every task.
	ShouldHandle func(ctx context.Context, url string) (bool, error)
	// HandleImage maps the local path of a downloaded image to the reference
	// embedded in the Markdown. nil embeds the local path.
	HandleImage func(ctx context.Context, localPath string) (string, error)
	// OnProgress receives (done, errors, total) before the batch and after every task.
	OnProgress func(done, errors, total int)
	// OnDocument receives every successfully rendered document. Its error
	// is logged and does not count as a task failure.
	OnDocument func(ctx context.Context, task Task, markdown string) error

	Logger Logger // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Task is one document to convert.
type Task struct {
	ID           string // document id, also the folder entry token
	URL          string
	Name         string
	Type         string // always "docx" for tasks that are rendered
	Revision     int    // known for DocURL tasks only
	ModifiedTime string // known for folder tasks only
}

// Document is a successfully rendered task.
type Document struct {
	Task     Task
	Markdown string
}

// Result contains the outcome of a batch.
type Result struct {
	Total     int
	Done      int
	Errors    int
	Skipped   int
	Documents []Document
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

func (o *Options) logError(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Errorf(f, a...)
	}
}

// Run converts the document referenced by DocURL, or every docx document of
// FolderToken, into Markdown. Tasks run sequentially; a failing task is
// counted in Result.Errors and never stops the batch. The returned error
// reports problems found before the batch could start, or a cancelled ctx.
func Run(ctx context.Context, opts Options) (*Result, error) {
	// Apply defaults.
	if opts.ImageDir == "" {
		opts.ImageDir = "."
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 200
	}
	if opts.PageCount <= 0 {
		opts.PageCount = 3
	}

	if opts.AppID == "" || opts.AppSecret == "" {
		return nil, errors.New("app id and app secret are required")
	}
	if opts.DocURL == "" && opts.FolderToken == "" {
		return nil, errors.New("a document URL or a folder token is required")
	}

	client := feishu.NewClient(opts.AppID, opts.AppSecret,
		feishu.WithBaseURL(opts.BaseURL),
		feishu.WithHTTPClient(opts.HTTPClient),
	)

	opts.logInfo("Authenticating with Feishu Open Platform...")
	if _, err := client.AccessToken(ctx); err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	tasks, err := listTasks(ctx, client, &opts)
	if err != nil {
		return nil, err
	}
	opts.logInfo("Found %d document(s) to convert", len(tasks))

	rendererOpts := []formatter.Option{
		formatter.WithImageResolver(newImageResolver(imager.NewStore(opts.ImageDir, client), opts.HandleImage)),
	}
	if opts.Logger != nil {
		rendererOpts = append(rendererOpts, formatter.WithLogger(opts.Logger))
	}

	conv := &converter{
		client:   client,
		renderer: formatter.NewRenderer(rendererOpts...),
	}

	return runBatch(ctx, tasks, conv.convert, &opts)
}

// listTasks resolves the options into the ordered task list.
func listTasks(ctx context.Context, client *feishu.Client, opts *Options) ([]Task, error) {
	if opts.DocURL != "" {
		opts.logInfo("Extracting document id from URL...")
		documentID, err := feishu.ExtractDocumentID(opts.DocURL)
		if err != nil {
			return nil, err
		}

		opts.logInfo("Fetching document metadata...")
		doc, err := client.GetDocument(ctx, documentID)
		if err != nil {
			return nil, fmt.Errorf("fetch document metadata: %w", err)
		}

		return []Task{{
			ID:       documentID,
			URL:      opts.DocURL,
			Name:     doc.Title,
			Type:     "docx",
			Revision: doc.RevisionID,
		}}, nil
	}

	opts.logInfo("Listing folder %s...", opts.FolderToken)
	files, err := client.ListFolder(ctx, opts.FolderToken, opts.PageSize, opts.PageCount)
	if err != nil {
		return nil, fmt.Errorf("list folder: %w", err)
	}

	tasks := make([]Task, 0, len(files))
	for _, f := range files {
		if f.Type != "docx" {
			opts.logWarn("Skipping %q: %s entries are not convertible", f.Name, f.Type)
			continue
		}
		tasks = append(tasks, Task{
			ID:           f.Token,
			URL:          f.URL,
			Name:         f.Name,
			Type:         f.Type,
			ModifiedTime: f.ModifiedTime,
		})
	}
	return tasks, nil
}

// converter runs the fetch, build and render pipeline of one document.
type converter struct {
	client   *feishu.Client
	renderer *formatter.Renderer
}

func (c *converter) convert(ctx context.Context, task Task) (string, error) {
	items, err := c.client.ListBlocks(ctx, task.ID)
	if err != nil {
		return "", fmt.Errorf("fetch blocks: %w", err)
	}

	blocks, err := extractor.Extract(items)
	if err != nil {
		return "", fmt.Errorf("build block map: %w", err)
	}

	return c.renderer.Render(ctx, task.ID, blocks)
}

// newImageResolver downloads images through store and passes the local path
// to handle. Storage failures abort the document, any other failure embeds
// the last value computed.
func newImageResolver(store *imager.Store, handle func(ctx context.Context, localPath string) (string, error)) formatter.ImageResolver {
	return formatter.ImageResolverFunc(func(ctx context.Context, documentID, token string) (string, error) {
		path, err := store.Save(ctx, documentID, token)
		if err != nil {
			if errors.Is(err, imager.ErrStorage) {
				return "", fmt.Errorf("%w: %w", formatter.ErrFatal, err)
			}
			return token, err
		}

		if handle == nil {
			return path, nil
		}

		ref, err := handle(ctx, path)
		if err != nil {
			return path, fmt.Errorf("handle image %s: %w", path, err)
		}
		return ref, nil
	})
}
