package graphic

import "github.com/matzehuels/gliffydb/pkg/props"

// Every function here returns a fresh map; defaults are never shared between
// graphics.

// defaultControlPath is the bend path Gliffy draws for a new line.
var defaultControlPath = [][2]float64{
	{9.740259795473818, 30.666666666666664},
	{9.740259795473818, 5.666666666666664},
	{-14.906926462140476, 5.666666666666664},
	{-14.906926462140476, -19.333333333333336},
}

func shapeDefaults(shape string) *props.Map {
	return props.New(
		props.Pair{Key: "tid", Value: StencilFor(shape)},
		props.Pair{Key: "strokeWidth", Value: 2},
		props.Pair{Key: "strokeColor", Value: "#000000"},
		props.Pair{Key: "fillColor", Value: "#FFFFFF"},
		props.Pair{Key: "gradient", Value: false},
		props.Pair{Key: "dropShadow", Value: false},
		props.Pair{Key: "state", Value: 0},
		props.Pair{Key: "shadowX", Value: 0},
		props.Pair{Key: "shadowY", Value: 0},
		props.Pair{Key: "opacity", Value: 1.0},
	)
}

func textDefaults() *props.Map {
	return props.New(
		props.Pair{Key: "tid", Value: nil},
		props.Pair{Key: "valign", Value: "middle"},
		props.Pair{Key: "overflow", Value: "none"},
		props.Pair{Key: "vposition", Value: "none"},
		props.Pair{Key: "hposition", Value: "none"},
		props.Pair{Key: "html", Value: ""},
		props.Pair{Key: "paddingLeft", Value: 2},
		props.Pair{Key: "paddingRight", Value: 2},
		props.Pair{Key: "paddingBottom", Value: 2},
		props.Pair{Key: "paddingTop", Value: 2},
	)
}

func textSettings() *props.Map {
	return props.New(
		props.Pair{Key: "text", Value: ""},
		props.Pair{Key: "css", Value: props.New(
			props.Pair{Key: "text-align", Value: "center"},
			props.Pair{Key: "font-size", Value: "12px"},
			props.Pair{Key: "font-family", Value: "Courier"},
			props.Pair{Key: "color", Value: "#000000"},
			props.Pair{Key: "bold", Value: false},
			props.Pair{Key: "italic", Value: false},
			props.Pair{Key: "underline", Value: false},
		)},
	)
}

func lineDefaults() *props.Map {
	path := make([]any, len(defaultControlPath))
	for i, p := range defaultControlPath {
		path[i] = []any{p[0], p[1]}
	}
	return props.New(
		props.Pair{Key: "strokeWidth", Value: 2},
		props.Pair{Key: "strokeColor", Value: "#000000"},
		props.Pair{Key: "fillColor", Value: props.NoColor},
		props.Pair{Key: "dashStyle", Value: nil},
		props.Pair{Key: "startArrow", Value: 0},
		props.Pair{Key: "endArrow", Value: 1},
		props.Pair{Key: "startArrowRotation", Value: "auto"},
		props.Pair{Key: "endArrowRotation", Value: "auto"},
		props.Pair{Key: "ortho", Value: true},
		props.Pair{Key: "interpolationType", Value: "linear"},
		props.Pair{Key: "cornerRadius", Value: 10},
		props.Pair{Key: "controlPath", Value: path},
		props.Pair{Key: "lockSegments", Value: props.New()},
	)
}

var (
	shapeFields = []props.Field{
		{Key: "strokeWidth", Type: props.TypeInt},
		{Key: "strokeColor", Type: props.TypeHex},
		{Key: "fillColor", Type: props.TypeHex},
		{Key: "opacity", Type: props.TypeFloat},
		{Key: "dropShadow", Type: props.TypeBool},
		{Key: "gradient", Type: props.TypeBool},
	}
	lineFields = []props.Field{
		{Key: "strokeWidth", Type: props.TypeInt},
		{Key: "strokeColor", Type: props.TypeHex},
		{Key: "fillColor", Type: props.TypeHex},
		{Key: "startArrow", Type: props.TypeInt},
		{Key: "endArrow", Type: props.TypeInt},
		{Key: "ortho", Type: props.TypeBool},
		{Key: "cornerRadius", Type: props.TypeInt},
		{Key: "interpolationType", Type: props.TypeString},
	}
	textFields = []props.Field{
		{Key: "text", Type: props.TypeString},
	}
	cssFields = []props.Field{
		{Key: "text-align", Type: props.TypeString},
		{Key: "font-size", Type: props.TypeString},
		{Key: "font-family", Type: props.TypeString},
		{Key: "color", Type: props.TypeHex},
		{Key: "bold", Type: props.TypeBool},
		{Key: "italic", Type: props.TypeBool},
		{Key: "underline", Type: props.TypeBool},
	}
)
