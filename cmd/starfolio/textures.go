package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/starfolio/texture"
)

var (
	textureSize int
	textureSeed int64

	texturesCmd = &cobra.Command{
		Use:   "textures <dir>",
		Short: "Write every procedural texture as a PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  runTextures,
	}
)

func init() {
	rootCmd.AddCommand(texturesCmd)
	texturesCmd.Flags().IntVar(&textureSize, "size", texture.DefaultSize, "Edge length in pixels")
	texturesCmd.Flags().Int64Var(&textureSeed, "seed", 1, "Generator seed")
}

// writeTextures renders each generator into dir and returns the written paths
func writeTextures(dir string, size int, seed int64) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}
	base := texture.MemberColor(int(seed))
	paths := make([]string, 0, len(texture.Kinds()))
	for _, k := range texture.Kinds() {
		img := texture.Generate(k, texture.Options{
			Base:  base,
			Size:  size,
			Label: k.String(),
			Seed:  seed,
		})
		p := filepath.Join(dir, k.String()+".png")
		if err := imaging.Save(img, p); err != nil {
			return paths, errors.Wrapf(err, "write %s", p)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func runTextures(cmd *cobra.Command, args []string) error {
	paths, err := writeTextures(args[0], textureSize, textureSeed)
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return err
}
