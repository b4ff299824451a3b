package leadtable

import (
	"context"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/campaign-cli/internal/fetcher"
)

// LoadOptions selects how a source is parsed.
type LoadOptions struct {
	Sheet    string // XLSX sheet name; first sheet when empty
	Encoding string // CSV charset; UTF-8 when empty
}

// Load reads the lead table at source. Sources ending in .xlsx are parsed as
// workbooks; everything else as CSV. Remote URLs are resolved by opener.
func Load(ctx context.Context, opener *fetcher.Opener, source string, opts LoadOptions) (*Table, error) {
	records, err := readRecords(ctx, opener, source, opts)
	if err != nil {
		return nil, err
	}
	t, err := Parse(records)
	if err != nil {
		return nil, eris.Wrapf(err, "leadtable: parse %s", source)
	}
	return t, nil
}

func readRecords(ctx context.Context, opener *fetcher.Opener, source string, opts LoadOptions) ([][]string, error) {
	xopts := fetcher.XLSXOptions{SheetName: opts.Sheet}

	if fetcher.Extension(source) == ".xlsx" && !fetcher.IsRemote(source) {
		rows, err := fetcher.ReadXLSX(source, xopts)
		return rows, eris.Wrapf(err, "leadtable: read %s", source)
	}

	rc, err := opener.Open(ctx, source)
	if err != nil {
		return nil, eris.Wrap(err, "leadtable: open source")
	}
	defer rc.Close() //nolint:errcheck

	if fetcher.Extension(source) == ".xlsx" {
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, eris.Wrapf(err, "leadtable: download %s", source)
		}
		rows, err := fetcher.ReadXLSXBytes(data, xopts)
		return rows, eris.Wrapf(err, "leadtable: read %s", source)
	}

	rows, err := fetcher.ReadCSV(ctx, rc, fetcher.CSVOptions{Encoding: opts.Encoding})
	return rows, eris.Wrapf(err, "leadtable: read %s", source)
}
