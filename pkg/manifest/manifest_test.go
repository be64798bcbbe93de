// Test Type: Unit Test
// Tests manifest parsing and the cross-source index queries.
package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patchcheck/pkg/manifest"
)

const primaryWxs = `<?xml version="1.0"?>
<Wix xmlns="http://schemas.microsoft.com/wix/2003/01/wi">
  <Product Id="8F1D4E2A-9B70-4A6E-B1C3-0D9E62F4A5B6" Name="Sample" Version="7.1.0">
    <Directory Id="TARGETDIR" Name="SourceDir">
      <Directory Id="BINDIR" Name="bin">
        <Component Id="CoreDll" Guid="{1AD46C94-0C26-4D65-AE3F-5B3A21B12E1F}">
          <File Id="CoreDllFile" Name="CORE~1.DLL" LongName="core.dll" />
        </Component>
        <Component Id="HelperExe" Guid="2B8A4F60-93D1-4E0B-8A57-6C1D2E3F4A5B">
          <File Id="HelperExeFile" Name="helper.exe" />
        </Component>
      </Directory>
    </Directory>
    <Feature Id="FullInstall" Level="1">
      <ComponentRef Id="CoreDll" />
      <ComponentRef Id="HelperExe" />
      <Feature Id="Extras" Level="2">
        <ComponentRef Id="HelperExe" />
      </Feature>
    </Feature>
  </Product>
</Wix>`

const correctionsWxs = `<?xml version="1.0"?>
<Wix xmlns="http://schemas.microsoft.com/wix/2003/01/wi">
  <Fragment>
    <DirectoryRef Id="BINDIR">
      <Component Id="PatchDll" Guid="C3D4E5F6-1122-3344-5566-778899AABBCC">
        <File Id="PatchDllFile" Name="patch.dll" />
      </Component>
    </DirectoryRef>
    <Component Id="Floating" Guid="D4E5F6A7-2233-4455-6677-8899AABBCCDD" Directory="ETCDIR">
      <File Id="FloatingFile" Name="floating.ini" />
    </Component>
    <FeatureRef Id="FullInstall">
      <ComponentRef Id="PatchDll" />
    </FeatureRef>
  </Fragment>
</Wix>`

func mustParse(t *testing.T, path, xml string) *manifest.Source {
	t.Helper()
	src, err := manifest.ParseSource(path, []byte(xml))
	require.NoError(t, err)
	return src
}

func sampleIndex(t *testing.T) *manifest.Index {
	t.Helper()
	return manifest.NewIndexFromSources(
		mustParse(t, "primary.wxs", primaryWxs),
		mustParse(t, "corrections.wxs", correctionsWxs),
	)
}

func TestParseSource(t *testing.T) {
	t.Run("invalid_xml_fails", func(t *testing.T) {
		_, err := manifest.ParseSource("bad.wxs", []byte("<Wix><unclosed"))
		assert.Error(t, err)
	})

	t.Run("empty_document_fails", func(t *testing.T) {
		_, err := manifest.ParseSource("empty.wxs", nil)
		assert.Error(t, err)
	})
}

func TestFindComponent(t *testing.T) {
	idx := sampleIndex(t)

	t.Run("finds_declared_guids", func(t *testing.T) {
		assert.True(t, idx.FindComponent("1AD46C94-0C26-4D65-AE3F-5B3A21B12E1F"))
		assert.True(t, idx.FindComponent("C3D4E5F6-1122-3344-5566-778899AABBCC"))
	})

	t.Run("case_and_braces_do_not_matter", func(t *testing.T) {
		assert.True(t, idx.FindComponent("{1ad46c94-0c26-4d65-ae3f-5b3a21b12e1f}"))
		assert.True(t, idx.FindComponent("2b8a4f60-93d1-4e0b-8a57-6c1d2e3f4a5b"))
	})

	t.Run("unknown_guid_misses", func(t *testing.T) {
		assert.False(t, idx.FindComponent("00000000-0000-0000-0000-000000000000"))
		assert.False(t, idx.FindComponent(""))
	})
}

func TestComponentByGUID(t *testing.T) {
	idx := sampleIndex(t)

	t.Run("resolves_directory_from_enclosing_element", func(t *testing.T) {
		rec, ok := idx.ComponentByGUID("1AD46C94-0C26-4D65-AE3F-5B3A21B12E1F")
		require.True(t, ok)
		assert.Equal(t, "CoreDll", rec.ID)
		assert.Equal(t, "BINDIR", rec.DirectoryID)
	})

	t.Run("resolves_directory_from_ref", func(t *testing.T) {
		rec, ok := idx.ComponentByGUID("C3D4E5F6-1122-3344-5566-778899AABBCC")
		require.True(t, ok)
		assert.Equal(t, "BINDIR", rec.DirectoryID)
	})

	t.Run("directory_attribute_wins", func(t *testing.T) {
		rec, ok := idx.ComponentByGUID("D4E5F6A7-2233-4455-6677-8899AABBCCDD")
		require.True(t, ok)
		assert.Equal(t, "ETCDIR", rec.DirectoryID)
	})

	t.Run("first_source_wins_on_duplicates", func(t *testing.T) {
		dup := `<Wix><Fragment><DirectoryRef Id="OTHERDIR">
			<Component Id="CoreDllMoved" Guid="1AD46C94-0C26-4D65-AE3F-5B3A21B12E1F" />
		</DirectoryRef></Fragment></Wix>`
		idx := manifest.NewIndexFromSources(
			mustParse(t, "primary.wxs", primaryWxs),
			mustParse(t, "dup.wxs", dup),
		)
		rec, ok := idx.ComponentByGUID("1AD46C94-0C26-4D65-AE3F-5B3A21B12E1F")
		require.True(t, ok)
		assert.Equal(t, "CoreDll", rec.ID)
		assert.Equal(t, "BINDIR", rec.DirectoryID)
	})
}

func TestFeaturesReferencing(t *testing.T) {
	idx := sampleIndex(t)

	t.Run("nested_features_count_separately", func(t *testing.T) {
		assert.Equal(t, []string{"Extras", "FullInstall"}, idx.FeaturesReferencing("HelperExe"))
		assert.Equal(t, []string{"FullInstall"}, idx.FeaturesReferencing("CoreDll"))
	})

	t.Run("feature_ref_wires_corrections", func(t *testing.T) {
		assert.Equal(t, []string{"FullInstall"}, idx.FeaturesReferencing("PatchDll"))
	})

	t.Run("unreferenced_component_has_none", func(t *testing.T) {
		assert.Empty(t, idx.FeaturesReferencing("Floating"))
		assert.Empty(t, idx.FeaturesReferencing(""))
	})
}

func TestFindFileElsewhere(t *testing.T) {
	idx := sampleIndex(t)

	t.Run("matches_long_name", func(t *testing.T) {
		path, ok := idx.FindFileElsewhere("core.dll", "BINDIR")
		require.True(t, ok)
		assert.Equal(t, "primary.wxs", path)
	})

	t.Run("matches_short_name", func(t *testing.T) {
		path, ok := idx.FindFileElsewhere("CORE~1.DLL", "BINDIR")
		require.True(t, ok)
		assert.Equal(t, "primary.wxs", path)
	})

	t.Run("name_match_is_case_insensitive", func(t *testing.T) {
		_, ok := idx.FindFileElsewhere("Helper.EXE", "BINDIR")
		assert.True(t, ok)
	})

	t.Run("directory_must_match", func(t *testing.T) {
		_, ok := idx.FindFileElsewhere("core.dll", "ETCDIR")
		assert.False(t, ok)
	})

	t.Run("searches_later_sources", func(t *testing.T) {
		path, ok := idx.FindFileElsewhere("patch.dll", "BINDIR")
		require.True(t, ok)
		assert.Equal(t, "corrections.wxs", path)
	})

	t.Run("empty_name_misses", func(t *testing.T) {
		_, ok := idx.FindFileElsewhere("", "BINDIR")
		assert.False(t, ok)
	})
}

func TestNewIndex(t *testing.T) {
	t.Run("loads_files_in_order", func(t *testing.T) {
		tmpDir := t.TempDir()
		primary := filepath.Join(tmpDir, "primary.wxs")
		corrections := filepath.Join(tmpDir, "corrections.wxs")
		require.NoError(t, os.WriteFile(primary, []byte(primaryWxs), 0644))
		require.NoError(t, os.WriteFile(corrections, []byte(correctionsWxs), 0644))

		idx, err := manifest.NewIndex(primary, corrections)
		require.NoError(t, err)
		assert.Equal(t, []string{primary, corrections}, idx.SourcePaths())
		assert.True(t, idx.FindComponent("C3D4E5F6-1122-3344-5566-778899AABBCC"))
	})

	t.Run("missing_file_is_fatal", func(t *testing.T) {
		_, err := manifest.NewIndex(filepath.Join(t.TempDir(), "absent.wxs"))
		assert.Error(t, err)
	})
}

func TestNormalizeGUID(t *testing.T) {
	assert.Equal(t, "ABC-DEF", manifest.NormalizeGUID("{abc-def}"))
	assert.Equal(t, "ABC-DEF", manifest.NormalizeGUID(" ABC-DEF "))
	assert.Equal(t, "", manifest.NormalizeGUID(""))
}
