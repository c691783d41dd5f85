package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/datapress/newshound"
)

// Markdown writes the report as GitHub-flavored markdown.
//
// The content mirrors the plain-text report, tables instead of
// underlined sections.
func Markdown(w io.Writer, meta Meta, snap newshound.Snapshot) error {
	md := markdown.NewMarkdown(w)

	md.H1("Crawl Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", meta.Site},
			{"Seed", meta.Seed},
			{"Started", meta.Start.Format(time.RFC1123)},
			{"Duration", meta.Duration.Round(time.Second).String()},
		},
	})
	md.PlainText("")

	md.H2("Fetch Statistics")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"Attempted", strconv.Itoa(snap.Attempted)},
			{"Succeeded", strconv.Itoa(snap.Succeeded)},
			{"Failed or aborted", strconv.Itoa(snap.Failed)},
			{"Denied by robots.txt", strconv.Itoa(snap.RobotsDenied)},
		},
	})
	md.PlainText("")

	md.H2("Status Codes")
	md.PlainText("")
	statuses := [][]string{}
	for _, code := range statusCodes(snap) {
		statuses = append(statuses, []string{
			strconv.Itoa(code),
			strconv.Itoa(snap.Statuses[code]),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows:   statuses,
	})
	md.PlainText("")

	md.H2("File Sizes")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Bucket", "Count"},
		Rows: [][]string{
			{"< 1KB", strconv.Itoa(snap.Sizes.Lt1K)},
			{"1KB ~ <10KB", strconv.Itoa(snap.Sizes.K1to10)},
			{"10KB ~ <100KB", strconv.Itoa(snap.Sizes.K10to100)},
			{"100KB ~ <1MB", strconv.Itoa(snap.Sizes.K100to1M)},
			{">= 1MB", strconv.Itoa(snap.Sizes.Ge1M)},
		},
	})
	md.PlainText("")

	md.H2("Content Types")
	md.PlainText("")
	types := [][]string{}
	for _, ct := range contentTypes(snap) {
		types = append(types, []string{ct, strconv.Itoa(snap.ContentTypes[ct])})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Content Type", "Count"},
		Rows:   types,
	})
	md.PlainText("")

	md.H2("Outgoing URLs")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Total outlinks extracted", strconv.Itoa(snap.Extracted)},
			{"Unique URLs discovered", strconv.Itoa(snap.Discovered)},
			{"Unique URLs within site", strconv.Itoa(snap.InDomain)},
			{"Unique URLs outside site", strconv.Itoa(snap.OutOfDomain)},
		},
	})

	return md.Build()
}
