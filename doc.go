// Package ragdoc turns Markdown, CSV, and ZIP-archived text files into PDF
// or JSON artifacts ready for retrieval-augmented generation pipelines.
//
// # Quick Start
//
// Ingest sources, normalize them into documents, and render:
//
//	res, err := ragdoc.Ingest(ctx, []ragdoc.Source{{Path: "notes.zip"}}, ragdoc.Limits{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	docs := ragdoc.Normalize(res.Files, ragdoc.DefaultNormalizeOptions())
//
//	conv, err := ragdoc.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	var artifacts []ragdoc.Artifact
//	for _, doc := range ragdoc.Aggregate(docs, true, "") {
//	    a, err := conv.RenderDocument(ctx, doc, ragdoc.RenderOptions{})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    artifacts = append(artifacts, a)
//	}
//	out, err := ragdoc.Package(artifacts, "")
//
// # Pipeline
//
//  1. Ingestion: plain files and ZIP archives are filtered by extension,
//     checked against size limits, and decoded to UTF-8 text.
//  2. Normalization: CSV becomes a Markdown table; every document gets a
//     filename heading (unless disabled) and a UUID.
//  3. Aggregation: documents are optionally combined, separated by
//     horizontal rules.
//  4. Rendering: Markdown to sanitized HTML (Goldmark, bluemonday), styled,
//     and printed to PDF by headless Chrome (go-rod). JSON output serializes
//     name/content pairs directly.
//  5. Packaging: a single artifact is delivered as is; several are zipped.
//
// # Parallel Processing
//
// For batch rendering, use ConverterPool to manage multiple browser instances:
//
//	pool := ragdoc.NewConverterPool(ragdoc.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
// Set ROD_BROWSER_BIN to use a specific binary; the sandbox is disabled when
// it is set or when CI=true.
package ragdoc
