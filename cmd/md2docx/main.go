package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/yockii/md2docx/pkg/docgen"
	"github.com/yockii/md2docx/pkg/util"
)

var errUsage = errors.New("usage: md2docx [flags] <input.md | ->")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run 解析参数并完成一次转换；out为"-"时写到stdout
func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("md2docx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	out := fs.StringP("out", "o", "", "输出文件路径，默认与输入同名的.docx")
	title := fs.StringP("title", "t", "", "页眉标题，默认使用组织名称")
	organisation := fs.StringP("organisation", "g", docgen.DefaultOrganisation, "页脚中的组织名称")
	accent := fs.StringP("accent", "a", docgen.DefaultAccentColor, "主题色，6位十六进制")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return errUsage
	}

	color, ok := docgen.NormalizeColor(*accent)
	if !ok {
		return fmt.Errorf("invalid accent colour %q: want 6 hex digits", *accent)
	}

	input := fs.Arg(0)
	var source []byte
	var err error
	if input == "-" {
		source, err = io.ReadAll(stdin)
	} else {
		source, err = os.ReadFile(input)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	blob, err := docgen.NewDocGenerator().RenderBytes(source, docgen.Options{
		Title:        *title,
		Organisation: *organisation,
		AccentColor:  color,
	})
	if err != nil {
		return err
	}

	target := *out
	if target == "" {
		target = outputPath(input)
	}
	if target == "-" {
		_, err = stdout.Write(blob)
		return err
	}
	if err := util.SaveFile(target, blob); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// outputPath 输入文件同目录下的同名.docx
func outputPath(input string) string {
	if input == "-" {
		return "document.docx"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".docx"
}
