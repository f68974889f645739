package shader

// PanoramaVertex projects the sphere mesh; attributes are position and uv.
const PanoramaVertex = `#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aUV;

uniform mat4 uViewProj;

out vec2 vUV;

void main() {
	vUV = aUV;
	gl_Position = uViewProj * vec4(aPos, 1.0);
}
`

// PanoramaFragment samples the equirectangular photo.
const PanoramaFragment = `#version 410 core

in vec2 vUV;

uniform sampler2D uTexture;

out vec4 FragColor;

void main() {
	FragColor = texture(uTexture, vUV);
}
`

// OverlayVertex draws screen-space quads in window pixels.
const OverlayVertex = `#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;

uniform mat4 uProj;

out vec2 vUV;

void main() {
	vUV = aUV;
	gl_Position = uProj * vec4(aPos, 0.0, 1.0);
}
`

// OverlayFragment fills a quad with a color, optionally modulating a texture.
const OverlayFragment = `#version 410 core

in vec2 vUV;

uniform sampler2D uTexture;
uniform vec4 uColor;
uniform bool uTextured;

out vec4 FragColor;

void main() {
	if (uTextured) {
		FragColor = texture(uTexture, vUV) * uColor;
	} else {
		FragColor = uColor;
	}
}
`
