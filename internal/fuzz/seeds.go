package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB на seed
	maxFuzzInput = 256 << 10
)

var builtinSeeds = []string{
	``,
	`<scene/>`,
	`<scene attr="1 &amp; &gt;"><!-- c --><gltf-model src="a.gltf"/></scene>`,
	`<scene><box position="1 2 3" color="#fff" scale="2"/></scene>`,
	`<scene attr="1`,
	`<scene><box @ position="1 2 3"/></scene>`,
	`<scene><text value="é\n"/></scene>`,
	`<scene><!-- open`,
	`<a</b>`,
	`<scene></other></scene>`,
	`<scene><material id="m"/><box material="#m"/><box material="#x"/></scene>`,
	"<scene>\r\n\t<box\tposition = \"1 2 3\" />\r\n</scene>",
	`<<<<>>>>`,
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every scene under the repository testdata directory.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext != ".scene" && ext != ".xml" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
