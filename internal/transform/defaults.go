package transform

import "github.com/vk/gocdyaml/internal/entity"

// The default-value table shared by both transform directions. The forward
// transform fills these in when a field is absent; the inverse transform
// omits fields equal to them. Keeping both directions on one table is what
// makes the round-trip property hold by construction.
const (
	// CurrentFormatVersion is the dialect revision this engine parses and
	// emits.
	CurrentFormatVersion = "10"

	// DefaultFormatVersion applies to a non-empty file that declares no
	// format_version.
	DefaultFormatVersion = "1"

	// DefaultApprovalType: stages trigger automatically on success.
	DefaultApprovalType = entity.ApprovalSuccess

	// DefaultRunIf: tasks run only while the job is passing.
	DefaultRunIf = entity.RunIfPassed

	// DefaultArtifactOrigin: fetch tasks pull server-side artifacts.
	DefaultArtifactOrigin = entity.ArtifactOriginGoCD

	// DefaultMaterialType applies to a material with neither an explicit
	// type nor a recognizable signature key.
	DefaultMaterialType = entity.MaterialGit

	// DefaultFetchMaterials: stages check out their materials.
	DefaultFetchMaterials = true

	// DefaultAutoUpdate: materials poll for changes.
	DefaultAutoUpdate = true
)
