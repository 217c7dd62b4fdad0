package ragdoc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-ragdoc/internal/assets"
	"github.com/alnah/go-ragdoc/internal/fileutil"
	"github.com/alnah/go-ragdoc/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pipeline.TOCInjector          = (*pipeline.TOCInjection)(nil)
	_ pdfConverter                  = (*rodConverter)(nil)
	_ pdfRenderer                   = (*rodRenderer)(nil)
)

// Converter orchestrates the Markdown-to-PDF rendering pipeline.
// Create with NewConverter, render with Convert or RenderDocument, and Close when done.
// A Converter owns one browser and is not meant for concurrent use; see ConverterPool.
type Converter struct {
	cfg           converterConfig
	logger        *zap.Logger
	assetLoader   assets.AssetLoader
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	cssInjector   pipeline.CSSInjector
	tocInjector   pipeline.TOCInjector
	pdfConverter  pdfConverter
}

// NewConverter creates a Converter with the default style.
// The browser is started lazily on the first PDF render.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:           converterConfig{timeout: defaultTimeout},
		logger:        zap.NewNop(),
		assetLoader:   assets.NewEmbeddedLoader(),
		preprocessor:  &pipeline.CommonMarkPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		cssInjector:   &pipeline.CSSInjection{},
		tocInjector:   pipeline.NewTOCInjection(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}

	return c, nil
}

// Convert runs the full pipeline and returns the HTML and PDF.
// If input.HTMLOnly is true, PDF generation is skipped.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	mdContent := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	htmlContent, err := c.htmlConverter.ToHTML(ctx, mdContent, input.Title)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, buildCSS(c.cfg.resolvedStyle, input.CSS))
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if input.TOC != nil {
		minDepth, maxDepth := input.TOC.depths()
		htmlContent, err = c.tocInjector.InjectTOC(ctx, htmlContent, &pipeline.TOCData{
			Title:    input.TOC.Title,
			MinDepth: minDepth,
			MaxDepth: maxDepth,
		})
		if err != nil {
			return nil, fmt.Errorf("injecting TOC: %w", err)
		}
	}

	res := &ConvertResult{HTML: []byte(htmlContent)}
	if input.HTMLOnly {
		return res, nil
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, &pdfOptions{
		Page:   input.Page,
		Footer: input.Footer,
	})
	if err != nil {
		return nil, err
	}
	res.PDF = pdfBytes
	return res, nil
}

// RenderDocument renders one document to a PDF artifact, or to a styled HTML
// artifact when opts.Format is FormatHTML. The artifact is named after the
// document with the extension replaced.
func (c *Converter) RenderDocument(ctx context.Context, doc Document, opts RenderOptions) (Artifact, error) {
	format := opts.Format
	if format == "" {
		format = FormatPDF
	}
	if format != FormatPDF && format != FormatHTML {
		return Artifact{}, fmt.Errorf("%w: %q cannot be rendered per document", ErrInvalidFormat, format)
	}
	if strings.TrimSpace(doc.Content) == "" {
		return Artifact{}, fmt.Errorf("%w: %s", ErrEmptyMarkdown, doc.Name)
	}

	c.logger.Debug("rendering document",
		zap.String("name", doc.Name),
		zap.Stringer("id", doc.ID),
		zap.String("format", string(format)),
	)

	res, err := c.Convert(ctx, Input{
		Markdown: doc.Content,
		Title:    doc.Name,
		CSS:      opts.CSS,
		Page:     opts.Page,
		Footer:   opts.Footer,
		TOC:      opts.TOC,
		HTMLOnly: format == FormatHTML,
	})
	if err != nil {
		return Artifact{}, fmt.Errorf("%s: %w", doc.Name, err)
	}

	data := res.PDF
	if format == FormatHTML {
		data = res.HTML
	}

	artifact := Artifact{
		Name:       fileutil.OutputName(doc.Name, format.Extension()),
		Data:       data,
		DocumentID: doc.ID,
	}
	c.logger.Debug("rendered document",
		zap.String("artifact", artifact.Name),
		zap.Int("bytes", len(artifact.Data)),
	)
	return artifact, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
// An empty input selects the default style unless WithoutStyle was given.
func (c *Converter) resolveStyle() error {
	if c.cfg.noStyle {
		c.cfg.resolvedStyle = ""
		return nil
	}

	input := c.cfg.styleInput
	if input == "" {
		input = assets.DefaultStyleName
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrStyleNotFound, input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	if fileutil.IsCSS(input) {
		c.cfg.resolvedStyle = input
		return nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) {
			return fmt.Errorf("%w: %q", ErrStyleNotFound, input)
		}
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	c.cfg.resolvedStyle = css
	return nil
}

// validateInput checks that required fields are present and valid.
// Config validation covers CLI users; this covers library callers building Input by hand.
func validateInput(input Input) error {
	if strings.TrimSpace(input.Markdown) == "" {
		return ErrEmptyMarkdown
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	if err := input.Footer.Validate(); err != nil {
		return err
	}
	return input.TOC.Validate()
}
