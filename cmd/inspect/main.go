package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/term"

	hexlens "github.com/hexlens/hexlens"
	"github.com/hexlens/hexlens/catalog"
	"github.com/hexlens/hexlens/memsource"
	"github.com/hexlens/hexlens/registry"
)

func main() {
	var (
		imageFile   = flag.String("image", "", "Path to captured memory image")
		baseStr     = flag.String("base", "0", "Address the image is mapped at (hex ok)")
		addrStr     = flag.String("addr", "", "Address of the value to decode (hex ok)")
		typeName    = flag.String("type", "", "Displayed type name, e.g. 'smol_str::SmolStr'")
		ptrSize     = flag.Uint("pointer-size", 8, "Target pointer size in bytes (4 or 8)")
		bigEndian   = flag.Bool("big-endian", false, "Target is big-endian")
		children    = flag.Bool("children", false, "Print the child tree, not just the summary")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	if *imageFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: inspect -image <dump.bin> -base 0x1000 -addr 0x1040 -type 'smol_str::SmolStr'")
		fmt.Fprintln(os.Stderr, "       inspect -image <dump.bin> -base 0x1000 -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			catalog.SetLogger(l)
			registry.SetLogger(l)
		}
	}

	platform := hexlens.Platform{PointerSize: uint32(*ptrSize), ByteOrder: binary.LittleEndian}
	if *bigEndian {
		platform.ByteOrder = binary.BigEndian
	}

	data, err := os.ReadFile(*imageFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: read image: %v\n", err)
		os.Exit(1)
	}
	base, err := parseAddr(*baseStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: bad base address: %v\n", err)
		os.Exit(1)
	}

	src := memsource.NewBuffer(base, data)
	cat := catalog.New(platform)
	reg := registry.Default(cat)

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(src, cat, reg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *addrStr == "" || *typeName == "" {
		fmt.Fprintln(os.Stderr, "Error: -addr and -type are required outside interactive mode")
		os.Exit(1)
	}
	addr, err := parseAddr(*addrStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: bad value address: %v\n", err)
		os.Exit(1)
	}

	if err := inspect(src, reg, addr, *typeName, *children); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func inspect(src *memsource.Buffer, reg *registry.Registry, addr uint64, typeName string, withChildren bool) error {
	h := hexlens.ValueHandle{Addr: addr, TypeName: typeName}

	summary, err := reg.Summarize(h, src)
	if err != nil {
		return err
	}
	fmt.Printf("%s @ 0x%x = %s\n", typeName, addr, summary)

	if !withChildren {
		return nil
	}
	node, err := reg.Node(h, src)
	if err != nil {
		return err
	}
	n, err := node.NumChildren()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		c, err := node.ChildAtIndex(i)
		if err != nil {
			return err
		}
		fmt.Printf("  %-10s %s\n", c.Name, c.Value)
	}
	return nil
}

func parseAddr(s string) (uint64, error) {
	return strconv.ParseUint(s, 0, 64)
}
