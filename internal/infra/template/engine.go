package template

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"iyffa/internal/domain/mailer"
)

var _ mailer.TemplateRenderer = (*Engine)(nil)

// layoutFile is the shared base layout every child template extends.
const layoutFile = "base.html"

// SectionContent is the section every child template must define. It
// carries the notification body and has no default in the layout.
const SectionContent = "content"

// templateMeta holds the subject and template name mapping for each mail type.
type templateMeta struct {
	Subject      string
	TemplateName string
}

// registry maps mail types to their metadata.
var registry = map[mailer.MailType]templateMeta{
	mailer.TypeWelcome:           {Subject: "Welcome to IYFFA", TemplateName: "welcome"},
	mailer.TypePasswordReset:     {Subject: "Reset Your Password", TemplateName: "password_reset"},
	mailer.TypeEventReminder:     {Subject: "Upcoming Event Reminder", TemplateName: "event_reminder"},
	mailer.TypeEventTicket:       {Subject: "Your Event Registration", TemplateName: "event_ticket"},
	mailer.TypeDonationReceipt:   {Subject: "Thank You for Your Donation", TemplateName: "donation_receipt"},
	mailer.TypeMembershipRenewal: {Subject: "Your IYFFA Membership Renewal", TemplateName: "membership_renewal"},
}

// Engine renders transactional emails from a base layout plus per-type child
// templates. The template set is loaded once at construction and never
// mutated afterwards, so concurrent renders need no locking: each Render
// call reads only its own context map and the shared immutable templates.
//
// Policy decisions (fail-fast, consistent across all templates):
//   - a child that omits the mandatory "content" section fails at load time,
//     not at render time in production;
//   - a referenced context key that is absent fails the render
//     (missingkey=error) instead of silently printing nothing.
type Engine struct {
	templates map[string]*template.Template
}

// NewEngine loads the base layout and all child templates from the given
// directory. Every *.html file except base.html is treated as a child that
// extends the layout; each child must define the "content" section.
func NewEngine(templatesDir string) (*Engine, error) {
	funcs := template.FuncMap{
		// The copyright year in the footer reflects the calendar year at
		// render time, not a compile-time constant.
		"currentYear": func() int { return time.Now().Year() },
	}

	baseSrc, err := os.ReadFile(filepath.Join(templatesDir, layoutFile))
	if err != nil {
		return nil, fmt.Errorf("reading base layout: %w", err)
	}

	base, err := template.New(layoutFile).
		Funcs(funcs).
		Option("missingkey=error").
		Parse(string(baseSrc))
	if err != nil {
		return nil, fmt.Errorf("parsing base layout: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(templatesDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("listing templates in %s: %w", templatesDir, err)
	}

	templates := make(map[string]*template.Template)
	for _, f := range files {
		if filepath.Base(f) == layoutFile {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(f), ".html")

		src, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", name, err)
		}

		// Each child gets its own clone of the layout so its section
		// definitions don't leak into sibling templates.
		child, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base layout for %s: %w", name, err)
		}
		if _, err := child.Parse(string(src)); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}

		if child.Lookup(SectionContent) == nil {
			return nil, &MissingSectionError{Template: name, Section: SectionContent}
		}

		templates[name] = child
	}

	if len(templates) == 0 {
		return nil, fmt.Errorf("no child templates found in %s", templatesDir)
	}

	return &Engine{templates: templates}, nil
}

// Render produces a subject line, HTML body, and plain-text fallback for the
// given mail type. The data map is read-only for the duration of the call.
func (e *Engine) Render(mailType mailer.MailType, data map[string]any) (subject, html, text string, err error) {
	meta, ok := registry[mailType]
	if !ok {
		return "", "", "", &TemplateNotFoundError{Name: string(mailType)}
	}

	tmpl, ok := e.templates[meta.TemplateName]
	if !ok {
		return "", "", "", &TemplateNotFoundError{Name: meta.TemplateName}
	}

	// Allow subject override via data
	subject = meta.Subject
	if customSubject, ok := data["Subject"].(string); ok && customSubject != "" {
		subject = customSubject
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutFile, data); err != nil {
		if key, ok := missingKey(err); ok {
			return "", "", "", &UndefinedVariableError{Template: meta.TemplateName, Variable: key}
		}
		return "", "", "", fmt.Errorf("executing template %s: %w", meta.TemplateName, err)
	}
	html = buf.String()

	// Generate plain-text fallback by stripping HTML tags
	text = stripHTML(html)

	return subject, html, text, nil
}

// missingKeyRe matches the html/template execution errors produced under
// missingkey=error ("map has no entry for key" and "nil data; no entry for key").
var missingKeyRe = regexp.MustCompile(`no entry for key "([^"]+)"`)

// missingKey extracts the offending context key from an execution error, if
// the error was caused by an absent map entry.
func missingKey(err error) (string, bool) {
	m := missingKeyRe.FindStringSubmatch(err.Error())
	if m == nil {
		return "", false
	}
	return m[1], true
}

var (
	// headRe and styleRe drop non-content markup wholesale: the <head> holds
	// the stylesheet and title, whose text would otherwise survive tag
	// stripping and lead the plain-text part with raw CSS.
	headRe  = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	styleRe = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagRe   = regexp.MustCompile(`<[^>]*>`)
)

// stripHTML removes HTML markup and collapses whitespace to produce a plain-text version.
func stripHTML(s string) string {
	text := headRe.ReplaceAllString(s, "")
	text = styleRe.ReplaceAllString(text, "")
	text = tagRe.ReplaceAllString(text, "")

	// Decode common HTML entities
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.ReplaceAll(text, "&#39;", "'")
	text = strings.ReplaceAll(text, "&nbsp;", " ")

	// Collapse whitespace
	wsRe := regexp.MustCompile(`\s+`)
	text = wsRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
