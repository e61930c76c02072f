package colorants

// Colorant is one pigment of the fixed tinting palette.
type Colorant struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Color string `json:"color"`
}

var palette = []Colorant{
	{Name: "Amarillo", Code: "AXX", Color: "#FFF200"},
	{Name: "Negro", Code: "B", Color: "#000000"},
	{Name: "Amarillo Oxido", Code: "C", Color: "#FFD600"},
	{Name: "Verde", Code: "D", Color: "#009640"},
	{Name: "Azul", Code: "E", Color: "#009FE3"},
	{Name: "Rojo Oxido", Code: "F", Color: "#E37222"},
	{Name: "Café Oxido", Code: "I", Color: "#A98C66"},
	{Name: "Sombra", Code: "L", Color: "#8C7B5A"},
	{Name: "Blanco", Code: "W", Color: "#FFFFFF"},
	{Name: "Magenta", Code: "V", Color: "#FF00A6"},
	{Name: "Amarillo Permanente", Code: "T", Color: "#FFF200"},
	{Name: "Rojo Exterior", Code: "R", Color: "#FF0000"},
}

// All returns the palette in display order. The returned slice is a copy.
func All() []Colorant {
	out := make([]Colorant, len(palette))
	copy(out, palette)
	return out
}

// Lookup finds a colorant by its name.
func Lookup(name string) (Colorant, bool) {
	for _, c := range palette {
		if c.Name == name {
			return c, true
		}
	}
	return Colorant{}, false
}
