// avatartool is a CLI utility for checking avatar payloads without a window.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/Faultbox/avatar-core/internal/avatar"
	"github.com/Faultbox/avatar-core/internal/avatar/geometry"
	"github.com/Faultbox/avatar-core/internal/logger"
	"github.com/Faultbox/avatar-core/pkg/payload"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "validate":
		err = cmdValidate(args)
	case "inspect", "info":
		err = cmdInspect(args)
	case "simulate", "sim":
		err = cmdSimulate(args)
	case "uvmap":
		err = cmdUVMap(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`avatartool - avatar payload utility

Usage:
  avatartool <command> [options] <payload.json>

Commands:
  validate <payload.json>                 Check geometry and list every problem
  inspect  <payload.json>                 Build the avatar and print a summary
  simulate [-t sec] [-fps n] [-seed n]    Run the animation headless and print poses
           [-expr name=value] [-clip name] <payload.json>
  uvmap    [-size px] [-o file] <payload.json>
                                          Render the UV layout to an image

Examples:
  avatartool validate avatar.json
  avatartool simulate -t 5 -expr smile=0.8 avatar.json
  avatartool uvmap -size 1024 -o uv.webp avatar.json`)
}

// loadPayload reads the payload named by the single positional argument.
func loadPayload(fs *flag.FlagSet, usage string) (*payload.Avatar, error) {
	if fs.NArg() < 1 {
		return nil, fmt.Errorf("usage: avatartool %s", usage)
	}
	return payload.DecodeFile(fs.Arg(0))
}

func cmdValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	fs.Parse(args)

	a, err := loadPayload(fs, "validate <payload.json>")
	if err != nil {
		return err
	}

	g, err := geometry.Validate(geometry.Raw{
		Vertices: a.Vertices,
		Faces:    a.Faces,
		UVs:      a.UVs,
		Normals:  a.Normals,
	})
	if err != nil {
		var verr *geometry.ValidationError
		if errors.As(err, &verr) {
			fmt.Printf("%s: invalid geometry\n", fs.Arg(0))
			for _, issue := range multierr.Errors(verr.Issues) {
				fmt.Printf("  - %v\n", issue)
			}
			if verr.Omitted > 0 {
				fmt.Printf("  ... and %d more\n", verr.Omitted)
			}
			return errors.New("validation failed")
		}
		return err
	}

	fmt.Printf("%s: ok (%d vertices, %d triangles", fs.Arg(0), len(g.Vertices), len(g.Triangles))
	if g.UVs == nil {
		fmt.Print(", uvs will be generated")
	}
	if g.Normals == nil {
		fmt.Print(", normals will be generated")
	}
	fmt.Println(")")
	return nil
}

func cmdInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	flip := fs.Bool("flip-winding", false, "Reverse triangle winding")
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.Parse(args)

	if *debug {
		if err := logger.Init("debug", ""); err != nil {
			return err
		}
		defer logger.Sync()
	}

	a, err := loadPayload(fs, "inspect <payload.json>")
	if err != nil {
		return err
	}

	cfg := avatar.DefaultConfig()
	cfg.FlipWinding = *flip
	m, err := avatar.NewBuilder(cfg, nil).Build(context.Background(), a)
	if err != nil {
		return err
	}

	b := m.Bounds()
	fmt.Printf("Avatar:    %s\n", m.ID)
	if m.CreatedAt != "" {
		fmt.Printf("Created:   %s\n", m.CreatedAt)
	}
	fmt.Printf("Vertices:  %d\n", m.Mesh.VertexCount())
	fmt.Printf("Triangles: %d\n", m.Mesh.TriangleCount())
	fmt.Printf("Bounds:    (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	fmt.Printf("Normals:   %s\n", provenance(m.Mesh.GeneratedNormals()))
	fmt.Printf("UVs:       %s\n", provenance(m.Mesh.GeneratedUVs()))
	fmt.Printf("Material:  %s\n", describeMaterial(m))
	fmt.Println()

	fmt.Println("Blend shapes:")
	for _, name := range m.BlendShapes.Names() {
		kind := "scalar"
		if m.BlendShapes.IsDisplacement(name) {
			kind = "displacement"
		}
		fmt.Printf("  %-20s %s\n", name, kind)
	}

	fmt.Println("Clips:")
	for _, c := range m.Clips {
		loop := ""
		if c.Loop {
			loop = " loop"
		}
		fmt.Printf("  %-20s %.2fs %d keys%s\n", c.Name, c.Duration, len(c.Keyframes), loop)
	}

	if len(m.Lighting) > 0 {
		fmt.Println("Lighting:")
		keys := make([]string, 0, len(m.Lighting))
		for k := range m.Lighting {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %-24s %.2f\n", k, m.Lighting[k])
		}
	}
	return nil
}

func provenance(generated bool) string {
	if generated {
		return "generated"
	}
	return "from payload"
}

func describeMaterial(m *avatar.Model) string {
	mat := m.Material
	if mat.Flat {
		c := mat.BaseColor
		return fmt.Sprintf("flat #%02x%02x%02x", c.R, c.G, c.B)
	}
	var maps []string
	if mat.Diffuse != nil {
		maps = append(maps, "diffuse")
	}
	if mat.Normal != nil {
		maps = append(maps, "normal")
	}
	if mat.Specular != nil {
		maps = append(maps, "specular")
	}
	if mat.Roughness != nil {
		maps = append(maps, "roughness")
	}
	return fmt.Sprintf("textured (%s, %dpx)", strings.Join(maps, ", "), mat.Diffuse.Bounds().Dx())
}
