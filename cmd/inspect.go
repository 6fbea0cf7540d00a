package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/spaghettifunk/cubism/engine/core"
	"github.com/spaghettifunk/cubism/engine/cubism"
	"github.com/spaghettifunk/cubism/engine/resources"
	"github.com/spaghettifunk/cubism/engine/usermodel"
)

var ErrNoCore = errors.New("the binary was built without Cubism Core")

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type inspectFlags struct {
	sections []string
}

func newInspectCommand(c Core) *cobra.Command {
	f := &inspectFlags{}
	cmd := &cobra.Command{
		Use:   "inspect <model3.json>",
		Short: "List the canvas, parameters, parts and drawables of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Load == nil {
				return ErrNoCore
			}
			model, settings, err := loadCoreModel(args[0], c)
			if err != nil {
				return err
			}
			if r, ok := model.(interface{ Release() }); ok {
				defer r.Release()
			}
			return writeInspection(cmd.OutOrStdout(), filepath.Base(args[0]), model, settings, f.sections)
		},
	}
	cmd.Flags().StringSliceVarP(&f.sections, "sections", "s", []string{"canvas", "parameters", "parts", "drawables"},
		"tables to print")
	return cmd
}

// loadCoreModel reads a model3.json and revives its moc.
func loadCoreModel(path string, c Core) (cubism.Model, *resources.Model3, error) {
	settings, err := resources.LoadModel3(path)
	if err != nil {
		return nil, nil, err
	}
	if settings.FileReferences.Moc == "" {
		return nil, nil, fmt.Errorf("%s: %w", path, usermodel.ErrNoMoc)
	}
	data, err := os.ReadFile(resources.Resolve(filepath.Dir(path), settings.FileReferences.Moc))
	if err != nil {
		return nil, nil, err
	}
	if c.MocVersionOf != nil {
		core.LogInfo("%s: moc3 version %s", filepath.Base(path), c.MocVersionOf(data))
	}
	model, err := c.Load(data)
	if err != nil {
		return nil, nil, err
	}
	return model, settings, nil
}

func writeInspection(w io.Writer, name string, m cubism.Model, settings *resources.Model3, sections []string) error {
	for _, s := range sections {
		var t *table.Table
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "canvas":
			t = canvasTable(m)
		case "parameters":
			t = parameterTable(m, settings)
		case "parts":
			t = partTable(m)
		case "drawables":
			t = drawableTable(m)
		default:
			return fmt.Errorf("unknown section %q", s)
		}
		title := fmt.Sprintf("%s %s", name, strings.ToLower(s))
		if _, err := fmt.Fprintln(w, titleStyle.Render(title)); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, t.Render()); err != nil {
			return err
		}
	}
	return nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			// row 0 is the header
			if row == 0 {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func num(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', 6, 32)
}

func canvasTable(m cubism.Model) *table.Table {
	c := m.CanvasInfo()
	b := c.Bounds()
	return newTable("size", "origin", "pixels per unit", "bounds").
		Row(
			fmt.Sprintf("%s x %s", num(c.Size.X), num(c.Size.Y)),
			fmt.Sprintf("%s, %s", num(c.Origin.X), num(c.Origin.Y)),
			num(c.PixelsPerUnit),
			fmt.Sprintf("%s, %s %s x %s", num(b.X), num(b.Y), num(b.Width), num(b.Height)),
		)
}

// groupsOf lists the model3 groups a parameter belongs to, such as EyeBlink.
func groupsOf(settings *resources.Model3, id string) string {
	if settings == nil {
		return ""
	}
	var names []string
	for _, g := range settings.Groups {
		for _, gid := range g.IDs {
			if gid == id {
				names = append(names, g.Name)
				break
			}
		}
	}
	return strings.Join(names, ",")
}

func parameterTable(m cubism.Model, settings *resources.Model3) *table.Table {
	t := newTable("#", "id", "min", "max", "default", "groups")
	ids := m.ParameterIDs()
	mins, maxs, defs := m.ParameterMinimumValues(), m.ParameterMaximumValues(), m.ParameterDefaultValues()
	for i, id := range ids {
		t.Row(strconv.Itoa(i), id, num(mins[i]), num(maxs[i]), num(defs[i]), groupsOf(settings, id))
	}
	return t
}

func partTable(m cubism.Model) *table.Table {
	t := newTable("#", "id", "opacity", "parent")
	ids := m.PartIDs()
	opacities, parents := m.PartOpacities(), m.PartParentIndices()
	for i, id := range ids {
		parent := "-"
		if p := parents[i]; p >= 0 && int(p) < len(ids) {
			parent = ids[p]
		}
		t.Row(strconv.Itoa(i), id, num(opacities[i]), parent)
	}
	return t
}

func flagNames(f cubism.ConstantFlags) string {
	var out []string
	if mode := f.BlendMode(); mode != cubism.BlendModeNormal {
		out = append(out, mode.String())
	}
	if f.Has(cubism.IsDoubleSided) {
		out = append(out, "double-sided")
	}
	if f.Has(cubism.IsInvertedMask) {
		out = append(out, "inverted")
	}
	return strings.Join(out, ",")
}

func drawableTable(m cubism.Model) *table.Table {
	t := newTable("#", "id", "texture", "draw", "render", "opacity", "vertices", "flags", "masks")
	ids := m.DrawableIDs()
	flags := m.DrawableConstantFlags()
	textures, drawOrders, renderOrders := m.DrawableTextureIndices(), m.DrawableDrawOrders(), m.DrawableRenderOrders()
	opacities := m.DrawableOpacities()
	for i, id := range ids {
		var masks []string
		for _, mi := range m.DrawableMasks(i) {
			if mi >= 0 && int(mi) < len(ids) {
				masks = append(masks, ids[mi])
			}
		}
		t.Row(
			strconv.Itoa(i), id,
			strconv.Itoa(int(textures[i])),
			strconv.Itoa(int(drawOrders[i])),
			strconv.Itoa(int(renderOrders[i])),
			num(opacities[i]),
			strconv.Itoa(len(m.DrawableVertexPositions(i))),
			flagNames(flags[i]),
			strings.Join(masks, ","),
		)
	}
	return t
}
