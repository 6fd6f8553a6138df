// Package textwriter is a reference vmcmc.Writer implementation that
// streams sampled chains to tab-separated text files. It depends only on
// the core's public Writer contract and is never imported back by
// metropolis or the root package.
package textwriter

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	vmcmc "github.com/mkleesiek/versatile-mcmc"

	"github.com/mkleesiek/versatile-mcmc/parameter"
)

// TSV streams incoming samples to one tab-separated text file per chain,
// or a single combined file interleaving every chain, matching the
// reference textual format: one header line, then one line per sample of
// "generation value... negLogLikelihood likelihood prior".
type TSV struct {
	Directory string
	Stem      string
	Separator string
	Extension string

	// Precision is the number of significant digits used to format
	// floating-point columns; -1 uses the shortest representation that
	// round-trips exactly.
	Precision int
	// ColumnSeparator delimits columns within a line. Defaults to a tab.
	ColumnSeparator string
	// CombineChains writes every chain into a single file when true;
	// otherwise each chain gets its own file with a zero-padded,
	// Separator-delimited numeric suffix.
	CombineChains bool

	files   []*os.File
	writers []*bufio.Writer
}

// NewTSV returns a TSV writer rooted at directory, with files named
// "<stem>[-NN].txt".
func NewTSV(directory, stem string) *TSV {
	return &TSV{
		Directory:       directory,
		Stem:            stem,
		Separator:       "-",
		Extension:       ".txt",
		Precision:       -1,
		ColumnSeparator: "\t",
	}
}

// FilePath returns the path written for chainIndex, or the combined file's
// path if chainIndex < 0.
func (w *TSV) FilePath(chainIndex int) string {
	name := w.Stem
	if chainIndex >= 0 {
		name += fmt.Sprintf("%s%02d", w.Separator, chainIndex)
	}
	name += w.Extension
	if w.Directory == "" {
		return name
	}
	return filepath.Join(w.Directory, name)
}

// Initialize implements vmcmc.Writer: it (re)creates and truncates one
// file per chain (or a single combined file) and writes the header line.
func (w *TSV) Initialize(numberOfChains int, pc *parameter.Config) error {
	w.closeAll()
	if numberOfChains < 1 {
		return nil
	}

	nFiles := numberOfChains
	if w.CombineChains {
		nFiles = 1
	}

	var header string
	{
		cols := []string{"Generation"}
		names := pc.Names()
		for i, name := range names {
			cols = append(cols, fmt.Sprintf("Param.%d:%s", i, name))
		}
		cols = append(cols, "negLogL.", "Likelihood", "Prior")
		header = joinTab(cols, w.ColumnSeparator)
	}

	w.files = make([]*os.File, nFiles)
	w.writers = make([]*bufio.Writer, nFiles)
	for c := 0; c < nFiles; c++ {
		path := w.FilePath(chainIndexOrCombined(c, w.CombineChains))

		f, err := os.Create(path)
		if err != nil {
			return errors.Wrapf(err, "textwriter: creating %q", path)
		}
		w.files[c] = f
		w.writers[c] = bufio.NewWriter(f)

		if _, err := fmt.Fprintln(w.writers[c], header); err != nil {
			return errors.Wrapf(err, "textwriter: writing header to %q", path)
		}
	}
	return nil
}

func chainIndexOrCombined(c int, combine bool) int {
	if combine {
		return -1
	}
	return c
}

// Write implements vmcmc.Writer: it appends chain[startIndex:chain.Len())
// to chainIndex's file (or the combined file). Write tolerates
// startIndex == chain.Len() as a no-op.
func (w *TSV) Write(chainIndex int, chain *vmcmc.Chain, startIndex int) error {
	if w.CombineChains {
		chainIndex = 0
	}
	if chainIndex < 0 || chainIndex >= len(w.writers) || w.writers[chainIndex] == nil {
		return errors.New("textwriter: Write called before a successful Initialize")
	}
	bw := w.writers[chainIndex]

	for i := startIndex; i < chain.Len(); i++ {
		s := chain.At(i)

		if _, err := fmt.Fprintf(bw, "%d", s.Generation); err != nil {
			return err
		}
		for _, v := range s.Values {
			if _, err := fmt.Fprintf(bw, "%s%s", w.ColumnSeparator, w.formatFloat(v)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(bw, "%s%s%s%s%s%s\n",
			w.ColumnSeparator, w.formatFloat(s.NegLogLikelihood),
			w.ColumnSeparator, w.formatFloat(s.Likelihood),
			w.ColumnSeparator, w.formatFloat(s.Prior)); err != nil {
			return err
		}
	}
	return nil
}

// Finalize implements vmcmc.Writer: it flushes and closes every open file.
func (w *TSV) Finalize() error {
	return w.closeAll()
}

func (w *TSV) closeAll() error {
	var firstErr error
	for i, bw := range w.writers {
		if bw == nil {
			continue
		}
		if err := bw.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := w.files[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	w.files = nil
	w.writers = nil
	return firstErr
}

func (w *TSV) formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', w.Precision, 64)
}

func joinTab(cols []string, sep string) string {
	out := cols[0]
	for _, c := range cols[1:] {
		out += sep + c
	}
	return out
}
