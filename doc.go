// Package feishuextractor converts Feishu (Lark) docx documents into
// Markdown via the Feishu Open Platform API.
//
// The CLI lives in cmd/feishu-extractor; this root package exposes the same
// pipeline as a Go API so that callers can embed conversion in their own
// tools without shelling out.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named feishuextractor:
//
//	import "github.com/kataras/feishu-extractor" // package feishuextractor
//
// # Quick start
//
//	result, err := feishuextractor.Run(ctx, feishuextractor.Options{
//	    AppID:     os.Getenv("FEISHU_APP_ID"),
//	    AppSecret: os.Getenv("FEISHU_APP_SECRET"),
//	    DocURL:    "https://acme.feishu.cn/docx/AbC123",
//	    ImageDir:  "assets",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, doc := range result.Documents {
//	    os.WriteFile(doc.Task.ID+".md", []byte(doc.Markdown), 0644)
//	}
//
// # Folders
//
// Leave [Options.DocURL] empty and set [Options.FolderToken] to convert
// every docx document of a drive folder. Other entry types are skipped.
// Documents are processed one at a time; a failing document is counted in
// [Result.Errors] and the batch moves on.
//
// # Hooks
//
// [Options.ShouldHandle] filters tasks before they start,
// [Options.HandleImage] turns the local path of every downloaded image into
// the reference written to the Markdown, and [Options.OnDocument] receives
// each finished document.
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output.
//
//	type myLogger struct{}
//	func (l *myLogger) Infof(f string, a ...any)  { log.Printf("[INFO]  "+f, a...) }
//	func (l *myLogger) Warnf(f string, a ...any)  { log.Printf("[WARN]  "+f, a...) }
//	func (l *myLogger) Errorf(f string, a ...any) { log.Printf("[ERROR] "+f, a...) }
package feishuextractor
