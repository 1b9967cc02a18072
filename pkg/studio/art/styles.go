package art

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

var DefaultStyles = []string{
	"Abstract Art",
	"Abstract Geometry",
	"Art Deco",
	"Art Nouveau",
	"Bauhaus",
	"Bokeh Art",
	"Brutalism in design",
	"Byzantine Art",
	"Celtic Art",
	"Charcoal",
	"Chinese Brush Painting",
	"Chiptune Visuals",
	"Concept Art",
	"Constructivism",
	"Cyber Folk",
	"Cybernetic Art",
	"Cyberpunk",
	"Dadaism",
	"Data Art",
	"Digital Collage",
	"Digital Cubism",
	"Digital Impressionism",
	"Digital Painting",
	"Double Exposure",
	"Dreamy Fantasy",
	"Dystopian Art",
	"Etching",
	"Expressionism",
	"Fauvism",
	"Flat Design",
	"Fractal Art",
	"Futurism",
	"Glitch Art",
	"Gothic Art",
	"Gouache",
	"Greco-Roman Art",
	"Impressionism",
	"Ink Wash",
	"Isometric Art",
	"Japanese Ukiyo-e",
	"Kinetic Typography",
	"Lithography",
	"Low Poly",
	"Macabre Art",
	"Magic Realism",
	"Minimalism",
	"Modernism",
	"Monogram",
	"Mosaic",
	"Neon Graffiti",
	"Neon Noir",
	"Origami",
	"Papercut",
	"Parallax Art",
	"Pastel Drawing",
	"Photorealism",
	"Pixel Art",
	"Pointillism",
	"Polyart",
	"Pop Art",
	"Psychedelic Art",
	"Rennaissance/Baroque",
	"Retro Wave",
	"Romanticism",
	"Sci-Fi Fantasy",
	"Scratchboard",
	"Steampunk",
	"Stippling",
	"Surrealism",
	"Symbolism",
	"Trompe-l'eil",
	"Vaporwave",
	"Vector Art",
	"Voxel Art",
	"Watercolor",
	"Woodblock Printing",
	"Zen Doodle",
}

// ReadStyles reads one style label per line. Blank lines and lines starting
// with '#' are ignored.
func ReadStyles(r io.Reader) ([]string, error) {
	var styles []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		styles = append(styles, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read styles: %w", err)
	}

	return styles, nil
}

func ReadStylesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open styles file: %w", err)
	}
	defer f.Close()

	return ReadStyles(f)
}
