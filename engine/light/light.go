package light

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	direction    [3]float32
	color        [3]float32
	intensity    float32
	enabled      bool
	castsShadows bool
}

// Light defines the interface for a directional light source.
//
// A directional light has no position, only a direction. It lights every fragment
// uniformly with no distance attenuation, like the sun. A scene node carries at most
// one Light component; the renderer uses the first enabled light it finds in the
// main scene for shading and, when CastsShadows is set, for the shadow pass.
type Light interface {
	// Direction returns the normalized direction the light travels, from the light toward the scene.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Enabled returns whether this light is active for rendering.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// CastsShadows returns whether this light renders a shadow map.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// SetDirection sets the light direction. The vector is normalized before storing.
	// A zero vector leaves the direction unchanged.
	//
	// Parameters:
	//   - x: the x direction component
	//   - y: the y direction component
	//   - z: the z direction component
	SetDirection(x, y, z float32)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r: the red component
	//   - g: the green component
	//   - b: the blue component
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetEnabled enables or disables the light.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetCastsShadows sets whether this light renders a shadow map.
	//
	// Parameters:
	//   - castsShadows: true to cast shadows
	SetCastsShadows(castsShadows bool)
}

var _ Light = &lightImpl{}

// NewDirectionalLight creates a new directional Light pointing straight down with white
// color and unit intensity, then applies the provided options.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewDirectionalLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		direction: [3]float32{0, -1, 0},
		color:     [3]float32{1, 1, 1},
		intensity: 1.0,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Direction() [3]float32 {
	return l.direction
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	if d, ok := normalize3(x, y, z); ok {
		l.direction = d
	}
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.castsShadows = castsShadows
}
