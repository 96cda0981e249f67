// The mdx-dump command displays the chunk structure of an MDX file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/warcodec/mdlx/mdx"
)

const usage = `usage: mdx-dump [INPUT] [OUTPUT]

Reads a binary MDX file from INPUT, and writes to OUTPUT a readable
representation of its chunks. For each chunk, the tag, offset, size, record
count, and a preview of the body are shown.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Errors are
written to stderr.
`

func main() {
	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout

	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) >= 1 && args[0] != "-" {
		in, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("open input: %w", err))
			return
		}
		input = in
		defer in.Close()
	}
	if len(args) >= 2 && args[1] != "-" {
		out, err := os.Create(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("create output: %w", err))
			return
		}
		defer out.Close()
		defer func() {
			if err := out.Sync(); err != nil {
				fmt.Fprintln(os.Stderr, fmt.Errorf("sync output: %w", err))
			}
		}()
		output = out
	}

	if err := (mdx.Decoder{}).Dump(output, input); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("error: %w", err))
	}
}
