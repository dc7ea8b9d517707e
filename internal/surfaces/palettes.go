package surfaces

// Palettes lists the palette names offered for preset surfaces, in display
// order. Any name the renderer's palette registry resolves is accepted.
var Palettes = []string{
	"Turbo256",
	"viridis",
	"gist_earth",
	"YlOrBr",
	"cool",
	"terrain",
	"RdYlGn",
	"cividis",
	"Spectral",
	"afmhot",
	"bwr",
	"Reds",
	"winter",
	"gnuplot",
}
