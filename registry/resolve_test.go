// Copyright 2019 Denis Bernard <db047h@gmail.com>
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, reg *Registry, target Target) *ProfileResult {
	t.Helper()
	p, err := reg.Resolve(target)
	require.NoError(t, err)
	return p
}

func TestResolveRemovedInLaterVersion(t *testing.T) {
	const doc = `<registry>
	<enums namespace="GL">
		<enum value="0x0000" name="GL_POINTS"/>
		<enum value="0x0001" name="GL_LINES"/>
	</enums>
	<feature api="gl" name="GL_VERSION_1_0" number="1.0">
		<require><enum name="GL_POINTS"/><enum name="GL_LINES"/></require>
	</feature>
	<feature api="gl" name="GL_VERSION_1_1" number="1.1">
		<remove><enum name="GL_LINES"/></remove>
	</feature>
</registry>`
	reg := buildDoc(t, doc)

	p := resolve(t, reg, Target{API: "gl", Version: "1.1"})
	assert.Equal(t, []string{"GL_POINTS"}, p.SortedEnums())

	p = resolve(t, reg, Target{API: "gl", Version: "1.0"})
	assert.Equal(t, []string{"GL_LINES", "GL_POINTS"}, p.SortedEnums())
}

func TestResolveUnsupportedExtension(t *testing.T) {
	const doc = `<registry>
	<enums namespace="GL"><enum value="0x01" name="GL_FOO"/></enums>
	<feature api="gles2" name="GL_ES_VERSION_2_0" number="2.0"/>
	<extensions>
		<extension name="E" supported="gl">
			<require><enum name="GL_FOO"/></require>
		</extension>
	</extensions>
</registry>`
	reg := buildDoc(t, doc)

	p := resolve(t, reg, Target{API: "gles2", Version: "2.0", Extensions: []string{"E"}})
	assert.False(t, p.Enums.Has("GL_FOO"))
	require.Len(t, p.Warnings, 1)
	assert.Equal(t, WarnUnsupportedAPIExtension, p.Warnings[0].Code)
	assert.True(t, errors.Is(p.Warnings[0], ErrUnsupportedAPIExtension))
	assert.Empty(t, p.Extensions)
}

func TestResolveAliasNormalization(t *testing.T) {
	const doc = `<registry>
	<enums namespace="GL">
		<enum value="0x01" name="GL_NEW"/>
		<enum value="0x01" name="GL_OLD" alias="GL_NEW"/>
	</enums>
	<feature api="gl" name="GL_VERSION_1_0" number="1.0">
		<require><enum name="GL_OLD"/><enum name="GL_NEW"/></require>
	</feature>
</registry>`
	reg := buildDoc(t, doc)

	p := resolve(t, reg, Target{API: "gl", Version: "1.0"})
	assert.Equal(t, []string{"GL_NEW"}, p.SortedEnums())
}

func TestResolveAliasChain(t *testing.T) {
	const doc = `<registry>
	<enums namespace="GL">
		<enum value="0x01" name="GL_C"/>
		<enum value="0x01" name="GL_B" alias="GL_C"/>
		<enum value="0x01" name="GL_A" alias="GL_B"/>
		<enum value="0x02" name="GL_X" alias="GL_Y"/>
		<enum value="0x02" name="GL_Y" alias="GL_X"/>
	</enums>
	<feature api="gl" name="GL_VERSION_1_0" number="1.0">
		<require><enum name="GL_A"/><enum name="GL_X"/></require>
	</feature>
</registry>`
	reg := buildDoc(t, doc)

	p := resolve(t, reg, Target{API: "gl", Version: "1.0"})
	assert.True(t, p.Enums.Has("GL_C"))
	assert.False(t, p.Enums.Has("GL_A"))
	assert.False(t, p.Enums.Has("GL_B"))
	// a cycle stops at the first repeated name
	assert.Len(t, p.Enums, 2)
}

func TestResolveRemoveAlias(t *testing.T) {
	const doc = `<registry>
	<enums namespace="GL">
		<enum value="0x01" name="GL_NEW"/>
		<enum value="0x01" name="GL_OLD" alias="GL_NEW"/>
	</enums>
	<feature api="gl" name="GL_VERSION_1_0" number="1.0">
		<require><enum name="GL_OLD"/></require>
	</feature>
	<feature api="gl" name="GL_VERSION_2_0" number="2.0">
		<remove><enum name="GL_NEW"/></remove>
	</feature>
</registry>`
	reg := buildDoc(t, doc)

	// the remove names the target, not the alias that was required
	p := resolve(t, reg, Target{API: "gl", Version: "2.0"})
	assert.Equal(t, []string{"GL_NEW"}, p.SortedEnums())
}

func TestResolveAliasRequiredAfterRemove(t *testing.T) {
	const doc = `<registry>
	<enums namespace="GL">
		<enum value="0x3000" name="GL_CLIP_PLANE0"/>
		<enum value="0x3000" name="GL_CLIP_DISTANCE0" alias="GL_CLIP_PLANE0"/>
	</enums>
	<feature api="gl" name="GL_VERSION_1_0" number="1.0">
		<require><enum name="GL_CLIP_PLANE0"/></require>
	</feature>
	<feature api="gl" name="GL_VERSION_3_0" number="3.0">
		<require><enum name="GL_CLIP_DISTANCE0"/></require>
	</feature>
	<feature api="gl" name="GL_VERSION_3_2" number="3.2">
		<remove profile="core"><enum name="GL_CLIP_PLANE0"/></remove>
	</feature>
</registry>`
	reg := buildDoc(t, doc)

	p := resolve(t, reg, Target{API: "gl", Profile: "core", Version: "3.3"})
	assert.Equal(t, []string{"GL_CLIP_PLANE0"}, p.SortedEnums())

	p = resolve(t, reg, Target{API: "gl", Profile: "core", Version: "2.1"})
	assert.Equal(t, []string{"GL_CLIP_PLANE0"}, p.SortedEnums())

	p = resolve(t, reg, Target{API: "gl", Profile: "compatibility", Version: "3.3"})
	assert.Equal(t, []string{"GL_CLIP_PLANE0"}, p.SortedEnums())
}

func TestResolveCoreProfile(t *testing.T) {
	reg := loadFixture(t)

	p := resolve(t, reg, Target{API: "gl", Profile: "core", Version: "3.3"})
	assert.Equal(t, []string{"glBindBuffer", "glBufferData", "glClear", "glGetError", "glGetString", "glLineWidth"}, p.SortedCommands())
	assert.Len(t, p.Enums, 18)
	assert.False(t, p.Enums.Has("GL_QUADS"))
	assert.True(t, p.Enums.Has("GL_TIMEOUT_IGNORED"))
	assert.Equal(t, []string{"GLsizeiptr"}, p.SortedTypes())
	assert.Equal(t, []string{"GL_VERSION_1_0", "GL_VERSION_1_1", "GL_VERSION_1_5", "GL_VERSION_3_1", "GL_VERSION_3_2"}, p.Features)
	assert.Empty(t, p.Warnings)
	assert.Equal(t, "3.3", p.Version)
}

func TestResolveCompatibilityProfile(t *testing.T) {
	reg := loadFixture(t)

	p := resolve(t, reg, Target{API: "gl", Profile: "compatibility", Version: "3.3"})
	assert.True(t, p.Commands.Has("glBegin"))
	assert.True(t, p.Commands.Has("glEnd"))
	assert.True(t, p.Enums.Has("GL_QUADS"))
	assert.Len(t, p.Enums, 19)

	// no profile: removes that name a profile do not apply
	p = resolve(t, reg, Target{API: "gl", Version: "3.3"})
	assert.True(t, p.Commands.Has("glBegin"))
}

func TestResolveIntermediateVersion(t *testing.T) {
	reg := loadFixture(t)

	p := resolve(t, reg, Target{API: "gl", Version: "1.2"})
	assert.Equal(t, []string{"GL_VERSION_1_0", "GL_VERSION_1_1"}, p.Features)
	assert.True(t, p.Enums.Has("GL_VERTEX_ARRAY"))
	assert.False(t, p.Enums.Has("GL_ARRAY_BUFFER"))
}

func TestResolveEmpty(t *testing.T) {
	reg := loadFixture(t)

	for _, target := range []Target{
		{API: "gl", Version: "0.9"},
		{API: "vulkan", Version: "1.0"},
		{API: "", Version: "4.6"},
	} {
		p := resolve(t, reg, target)
		assert.Empty(t, p.Enums, target.API)
		assert.Empty(t, p.Commands, target.API)
		assert.Empty(t, p.Types, target.API)
		assert.Empty(t, p.Features, target.API)
		assert.Empty(t, p.Warnings, target.API)
	}
}

func TestResolveInvalidVersion(t *testing.T) {
	reg := loadFixture(t)

	_, err := reg.Resolve(Target{API: "gl", Version: "three"})
	assert.True(t, errors.Is(err, ErrInvalidVersion))
}

func TestResolveNumericVersionOrder(t *testing.T) {
	const doc = `<registry>
	<enums namespace="GL">
		<enum value="0x01" name="GL_NINE"/>
		<enum value="0x02" name="GL_TEN"/>
	</enums>
	<feature api="gl" name="GL_VERSION_10_0" number="10.0">
		<remove><enum name="GL_NINE"/></remove>
		<require><enum name="GL_TEN"/></require>
	</feature>
	<feature api="gl" name="GL_VERSION_9_0" number="9.0">
		<require><enum name="GL_NINE"/></require>
	</feature>
	<feature api="gl" name="GL_VERSION_BAD" number="x"/>
</registry>`
	reg := buildDoc(t, doc)

	p := resolve(t, reg, Target{API: "gl", Version: "9.5"})
	assert.Equal(t, []string{"GL_NINE"}, p.SortedEnums())

	p = resolve(t, reg, Target{API: "gl", Version: "10.0"})
	assert.Equal(t, []string{"GL_TEN"}, p.SortedEnums())
	assert.Equal(t, []string{"GL_VERSION_9_0", "GL_VERSION_10_0"}, p.Features)
	require.Len(t, p.Warnings.ByCode(WarnMalformedNumber), 1)
	assert.Equal(t, "x", p.Warnings[0].Name)
}

func TestResolveExtensions(t *testing.T) {
	reg := loadFixture(t)

	p := resolve(t, reg, Target{
		API:        "gl",
		Profile:    "core",
		Version:    "3.3",
		Extensions: []string{"GL_ARB_vertex_buffer_object", "GL_ARB_debug_output", "GL_FOO_bar", "GL_ARB_debug_output"},
	})
	assert.True(t, p.Commands.Has("glBindBufferARB"))
	assert.True(t, p.Enums.Has("GL_ARRAY_BUFFER"))
	assert.False(t, p.Enums.Has("GL_ARRAY_BUFFER_ARB"))
	assert.True(t, p.Enums.Has("GL_DEBUG_OUTPUT_SYNCHRONOUS"))
	assert.False(t, p.Enums.Has("GL_DEBUG_OUTPUT_SYNCHRONOUS_ARB"))
	assert.Equal(t, []string{"GL_ARB_vertex_buffer_object", "GL_ARB_debug_output"}, p.Extensions)

	require.Len(t, p.Warnings, 1)
	assert.Equal(t, WarnUnknownExtension, p.Warnings[0].Code)
	assert.Equal(t, "GL_FOO_bar", p.Warnings[0].Name)
}

func TestResolveExtensionAPIBlocks(t *testing.T) {
	reg := loadFixture(t)

	es := resolve(t, reg, Target{API: "gles2", Version: "2.0", Extensions: []string{"GL_KHR_debug", "GL_EXT_separate_shader_objects"}})
	assert.True(t, es.Enums.Has("GL_DEBUG_OUTPUT_SYNCHRONOUS"))
	assert.True(t, es.Enums.Has("GL_VERTEX_ARRAY"))
	assert.True(t, es.Enums.Has("GL_ACTIVE_PROGRAM_EXT"))
	assert.False(t, es.Enums.Has("GL_DEBUG_SOURCE_API"))
	assert.False(t, es.Commands.Has("glDebugMessageControl"))

	core := resolve(t, reg, Target{API: "gl", Profile: "core", Version: "3.3", Extensions: []string{"GL_KHR_debug"}})
	assert.True(t, core.Commands.Has("glDebugMessageControl"))
	assert.True(t, core.Enums.Has("GL_DEBUG_SOURCE_API"))
	assert.True(t, core.Enums.Has("GL_VERTEX_ARRAY"), "required by GL 1.1")

	compat := resolve(t, reg, Target{API: "gl", Profile: "compatibility", Version: "1.0", Extensions: []string{"GL_KHR_debug"}})
	assert.True(t, compat.Enums.Has("GL_VERTEX_ARRAY"))
	core = resolve(t, reg, Target{API: "gl", Profile: "core", Version: "1.0", Extensions: []string{"GL_KHR_debug"}})
	assert.False(t, core.Enums.Has("GL_VERTEX_ARRAY"))
}

func TestResolveExtensionOverridesRemove(t *testing.T) {
	reg := loadFixture(t)

	p := resolve(t, reg, Target{API: "gl", Profile: "core", Version: "3.3", Extensions: []string{"GL_ARB_compatibility"}})
	assert.True(t, p.Commands.Has("glBegin"))
	assert.True(t, p.Enums.Has("GL_QUADS"))
}

func TestResolveExtensionLastWins(t *testing.T) {
	const doc = `<registry>
	<enums namespace="GL"><enum value="0x01" name="GL_FOO"/></enums>
	<feature api="gl" name="GL_VERSION_1_0" number="1.0"/>
	<extensions>
		<extension name="GL_ADD" supported="gl"><require><enum name="GL_FOO"/></require></extension>
		<extension name="GL_DROP" supported="gl"><remove><enum name="GL_FOO"/></remove></extension>
	</extensions>
</registry>`
	reg := buildDoc(t, doc)

	p := resolve(t, reg, Target{API: "gl", Version: "1.0", Extensions: []string{"GL_ADD", "GL_DROP"}})
	assert.False(t, p.Enums.Has("GL_FOO"))

	p = resolve(t, reg, Target{API: "gl", Version: "1.0", Extensions: []string{"GL_DROP", "GL_ADD"}})
	assert.True(t, p.Enums.Has("GL_FOO"))
}

func TestResolveDropsDanglingNames(t *testing.T) {
	const doc = `<registry>
	<enums namespace="GL"><enum value="0x01" name="GL_FOO"/></enums>
	<feature api="gl" name="GL_VERSION_1_0" number="1.0">
		<require><enum name="GL_FOO"/><enum name="GL_GHOST"/><command name="glGhost"/><type name="GLghost"/></require>
	</feature>
</registry>`
	reg := buildDoc(t, doc)
	require.Len(t, reg.Warnings().ByCode(WarnDanglingReference), 3)

	p := resolve(t, reg, Target{API: "gl", Version: "1.0"})
	assert.Equal(t, []string{"GL_FOO"}, p.SortedEnums())
	assert.Empty(t, p.Commands)
	assert.Empty(t, p.Types)
}

func TestResolveDependencies(t *testing.T) {
	reg := loadFixture(t)

	p := resolve(t, reg, Target{API: "gl", Profile: "core", Version: "3.3", WithDependencies: true})
	assert.Equal(t, []string{
		"GLbitfield", "GLenum", "GLfloat", "GLsizeiptr", "GLubyte", "GLuint", "khrplatform", "stddef",
	}, p.SortedTypes())

	es := resolve(t, reg, Target{API: "gles2", Version: "2.0", WithDependencies: true})
	assert.True(t, es.Types.Has("GLsizeiptr"))
	assert.True(t, es.Types.Has("khrplatform"))
	assert.False(t, es.Types.Has("stddef"))
}

func TestResolveMonotonic(t *testing.T) {
	reg := loadFixture(t)

	// no remove applies without a profile
	versions := []string{"1.0", "1.1", "1.5", "3.1", "3.2", "3.3", "4.3", "4.6"}
	var prev *ProfileResult
	for _, v := range versions {
		p := resolve(t, reg, Target{API: "gl", Version: v})
		if prev != nil {
			for n := range prev.Enums {
				assert.True(t, p.Enums.Has(n), "%s lost %s", v, n)
			}
		}
		prev = p
	}
}

func TestResolveAliasInvariant(t *testing.T) {
	reg := loadFixture(t)
	exts := []string{}
	for _, e := range reg.Extensions() {
		exts = append(exts, e.Name)
	}

	for _, target := range []Target{
		{API: "gl", Profile: "core", Version: "4.6", Extensions: exts},
		{API: "gl", Profile: "compatibility", Version: "4.6", Extensions: exts},
		{API: "gles2", Version: "3.2", Extensions: exts},
	} {
		p := resolve(t, reg, target)
		for n := range p.Enums {
			e := reg.EnumFor(n, target.API)
			if e == nil {
				e = reg.Enum(n)
			}
			require.NotNil(t, e, n)
			if e.Alias != "" {
				assert.False(t, p.Enums.Has(e.Alias), "%s and its alias %s both present", n, e.Alias)
			}
		}
	}
}

func TestResolveIdempotent(t *testing.T) {
	reg := loadFixture(t)
	target := Target{API: "gl", Profile: "core", Version: "4.3", Extensions: []string{"GL_KHR_debug", "GL_ARB_compatibility"}, WithDependencies: true}

	a := resolve(t, reg, target)
	b := resolve(t, reg, target)
	assert.Equal(t, a, b)
}

func TestResolveConcurrent(t *testing.T) {
	reg := loadFixture(t)
	want := resolve(t, reg, Target{API: "gl", Profile: "core", Version: "4.3"})

	var wg sync.WaitGroup
	results := make([]*ProfileResult, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Resolve(reg, Target{API: "gl", Profile: "core", Version: "4.3"})
		}(i)
	}
	wg.Wait()
	for _, p := range results {
		assert.Equal(t, want, p)
	}
}
