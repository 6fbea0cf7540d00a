package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
)

type programKind int

const (
	programMask programKind = iota
	programModel
	programModelMasked
	programModelMaskedInverted
	programCount
)

func (k programKind) defines() []string {
	switch k {
	case programMask:
		return []string{"PASS_MASK"}
	case programModelMasked:
		return []string{"PASS_MODEL", "MASKED"}
	case programModelMaskedInverted:
		return []string{"PASS_MODEL", "MASKED", "INVERTED"}
	default:
		return []string{"PASS_MODEL"}
	}
}

func programFor(masked, inverted bool) programKind {
	switch {
	case masked && inverted:
		return programModelMaskedInverted
	case masked:
		return programModelMasked
	default:
		return programModel
	}
}

// Positions are in model units. Texcoords keep the authored v, flipped here.
const shaderSource = `
#ifdef VERTEX
layout(location = 0) in vec2 a_position;
layout(location = 1) in vec2 a_texcoord;

out vec2 v_texcoord;

#ifdef PASS_MASK
uniform vec4 u_matrix;
out vec4 v_position;

void main() {
	vec4 pos = vec4(a_position * u_matrix.xy + u_matrix.zw, 0.0, 1.0);
	gl_Position = pos;
	v_position = pos;
	v_texcoord = vec2(a_texcoord.x, 1.0 - a_texcoord.y);
}
#endif

#ifdef PASS_MODEL
uniform mat4 u_mvp;
uniform vec4 u_clip_matrix;
out vec2 v_clip;

void main() {
	gl_Position = u_mvp * vec4(a_position, 0.0, 1.0);
	v_clip = a_position * u_clip_matrix.xy + u_clip_matrix.zw;
	v_texcoord = vec2(a_texcoord.x, 1.0 - a_texcoord.y);
}
#endif
#endif

#ifdef FRAGMENT
in vec2 v_texcoord;
out vec4 frag_color;

uniform sampler2D u_texture;
uniform vec4 u_channel;

#ifdef PASS_MASK
in vec4 v_position;
uniform vec4 u_rect;

void main() {
	float inside = step(u_rect.x, v_position.x)
		* step(u_rect.y, v_position.y)
		* step(v_position.x, u_rect.z)
		* step(v_position.y, u_rect.w);
	frag_color = u_channel * texture(u_texture, v_texcoord).a * inside;
}
#endif

#ifdef PASS_MODEL
in vec2 v_clip;
uniform sampler2D u_mask;
uniform float u_opacity;

void main() {
	vec4 color = texture(u_texture, v_texcoord) * u_opacity;
#ifdef MASKED
	float mask = dot(vec4(1.0) - texture(u_mask, v_clip), u_channel);
#ifdef INVERTED
	mask = 1.0 - mask;
#endif
	color *= mask;
#endif
	frag_color = color;
}
#endif
#endif
`

func buildShaderSource(stage string, defines []string) string {
	var sb strings.Builder
	sb.WriteString("#version 330 core\n")
	sb.WriteString("#define " + stage + "\n")
	for _, d := range defines {
		sb.WriteString("#define " + d + "\n")
	}
	sb.WriteString(shaderSource)
	return sb.String()
}

type program struct {
	handle     uint32
	mvp        int32
	matrix     int32
	clipMatrix int32
	channel    int32
	rect       int32
	opacity    int32
	texture    int32
	mask       int32
}

func buildProgram(kind programKind) (*program, error) {
	vertexShader, err := compileShader(gl.VERTEX_SHADER, buildShaderSource("VERTEX", kind.defines()))
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(gl.FRAGMENT_SHADER, buildShaderSource("FRAGMENT", kind.defines()))
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vertexShader)
	gl.AttachShader(handle, fragmentShader)
	gl.LinkProgram(handle)

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(handle, logLength, nil, gl.Str(log))
		gl.DeleteProgram(handle)
		return nil, fmt.Errorf("link error: %s", strings.TrimRight(log, "\x00"))
	}

	p := &program{handle: handle}
	p.mvp = uniform(handle, "u_mvp")
	p.matrix = uniform(handle, "u_matrix")
	p.clipMatrix = uniform(handle, "u_clip_matrix")
	p.channel = uniform(handle, "u_channel")
	p.rect = uniform(handle, "u_rect")
	p.opacity = uniform(handle, "u_opacity")
	p.texture = uniform(handle, "u_texture")
	p.mask = uniform(handle, "u_mask")

	gl.UseProgram(handle)
	gl.Uniform1i(p.texture, 0)
	if p.mask >= 0 {
		gl.Uniform1i(p.mask, 1)
	}
	return p, nil
}

// uniform returns -1 for names the linker removed; gl ignores writes to -1.
func uniform(handle uint32, name string) int32 {
	return gl.GetUniformLocation(handle, gl.Str(name+"\x00"))
}

func compileShader(shaderType uint32, source string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile error: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}
