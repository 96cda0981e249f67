// The mdlx-stat command displays stats for a model file.
package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/warcodec/mdlx"
	"github.com/warcodec/mdlx/convert"
	"golang.org/x/crypto/blake2b"
)

const usage = `usage: mdlx-stat [-kind mdx|mdl] [INPUT] [OUTPUT]

Reads an MDX or MDL file from INPUT, and writes to OUTPUT statistics for the
file as JSON.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used, and its encoding is given by -kind. Otherwise, the encoding is
chosen by the extension of INPUT. If OUTPUT is "-" or unspecified, then stdout
is used. Warnings and errors are written to stderr.
`

// Stats describes a model file.
type Stats struct {
	Kind string
	Size int
	// BLAKE2b-256 hash of the file.
	Digest string

	Version int32 `json:",omitempty"`

	// Number of entities per kind.
	EntityCount map[string]int `json:",omitempty"`

	// Number of animation tracks and keyframes overall.
	TrackCount    int
	KeyframeCount int

	// Number of tracks per interpolation type.
	InterpolationCount map[string]int `json:",omitempty"`

	Warnings []string `json:",omitempty"`
}

func add[T mdlx.Sample](s *Stats, tracks ...*mdlx.Animation[T]) {
	for _, a := range tracks {
		if a != nil {
			s.TrackCount++
			s.KeyframeCount += len(a.Keys)
			s.InterpolationCount[a.Interpolation.String()]++
		}
	}
}

func addNode(s *Stats, n *mdlx.Node) {
	add(s, n.Translation, n.Scaling)
	add(s, n.Rotation)
}

// Fill counts the entities and tracks of model.
func (s *Stats) Fill(model *mdlx.Model) {
	if model == nil {
		return
	}
	s.Version = model.Version
	s.EntityCount = convert.Count(model)
	s.InterpolationCount = map[string]int{}

	for _, m := range model.Materials {
		for _, l := range m.Layers {
			add(s, l.AlphaAnim)
			add(s, l.TextureIDAnim)
		}
	}
	for _, t := range model.TextureAnims {
		add(s, t.Translation, t.Scaling)
		add(s, t.Rotation)
	}
	for _, a := range model.GeosetAnims {
		add(s, a.AlphaAnim)
		add(s, a.ColorAnim)
	}
	for i := range model.Bones {
		addNode(s, &model.Bones[i].Node)
	}
	for i := range model.Helpers {
		addNode(s, &model.Helpers[i].Node)
	}
	for i := range model.EventObjects {
		addNode(s, &model.EventObjects[i].Node)
	}
	for i := range model.CollisionShapes {
		addNode(s, &model.CollisionShapes[i].Node)
	}
	for i, a := range model.Attachments {
		addNode(s, &model.Attachments[i].Node)
		add(s, a.Visibility)
	}
	for i, l := range model.Lights {
		addNode(s, &model.Lights[i].Node)
		add(s, l.AttenuationStartAnim, l.AttenuationEndAnim, l.IntensityAnim, l.AmbientIntensityAnim, l.Visibility)
		add(s, l.ColorAnim, l.AmbientColorAnim)
	}
	for i, p := range model.ParticleEmitters {
		addNode(s, &model.ParticleEmitters[i].Node)
		add(s, p.Visibility, p.EmissionRateAnim, p.GravityAnim, p.LongitudeAnim, p.LatitudeAnim, p.LifeSpanAnim, p.SpeedAnim)
	}
	for i, p := range model.ParticleEmitter2s {
		addNode(s, &model.ParticleEmitter2s[i].Node)
		add(s, p.Visibility, p.EmissionRateAnim, p.WidthAnim, p.LengthAnim, p.SpeedAnim, p.LatitudeAnim, p.VariationAnim, p.GravityAnim)
	}
	for i, r := range model.RibbonEmitters {
		addNode(s, &model.RibbonEmitters[i].Node)
		add(s, r.Visibility, r.HeightAboveAnim, r.HeightBelowAnim, r.AlphaAnim)
		add(s, r.ColorAnim)
		add(s, r.TextureSlotAnim)
	}
	for _, c := range model.Cameras {
		add(s, c.Translation, c.TargetTranslation)
		add(s, c.Rotation)
	}
}

func main() {
	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout

	kindName := flag.String("kind", "mdx", "Encoding of stdin: mdx or mdl")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()
	args := flag.Args()

	kind, err := convert.KindOf("." + *kindName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if len(args) >= 1 && args[0] != "-" {
		if kind, err = convert.KindOf(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
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
			err := out.Sync()
			if err != nil {
				fmt.Fprintln(os.Stderr, fmt.Errorf("sync output: %w", err))
				return
			}
		}()
		output = out
	}

	data, err := io.ReadAll(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("read input: %w", err))
		return
	}
	sum := blake2b.Sum256(data)
	stats := Stats{Kind: kind.String(), Size: len(data), Digest: hex.EncodeToString(sum[:])}

	model, warn, err := convert.Decode(bytes.NewReader(data), kind, mdlx.DefaultFormat())
	for _, w := range convert.Warnings(warn) {
		stats.Warnings = append(stats.Warnings, w.Error())
	}
	if warn != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("decode warning: %w", warn))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("decode error: %w", err))
	}

	stats.Fill(model)

	je := json.NewEncoder(output)
	je.SetEscapeHTML(false)
	je.SetIndent("", "\t")
	if err := je.Encode(stats); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("write error: %w", err))
	}
}
