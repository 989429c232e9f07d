package plugin

// Request is one message from the hosting boundary: a request name picking
// the operation plus a JSON body with its parameters.
type Request struct {
	Name string
	Body []byte
}

// Response is the uniform envelope handed back to the boundary.
type Response struct {
	Code    int
	Headers map[string]string
	Body    []byte
}

// Response codes, mirroring the host protocol's conventions.
const (
	CodeSuccess       = 200
	CodeBadRequest    = 400
	CodeInternalError = 500
)

// The supported request names.
const (
	ReqParseDirectory        = "parse-directory"
	ReqParseContent          = "parse-content"
	ReqPipelineExport        = "pipeline-export"
	ReqConfigFiles           = "config-files"
	ReqGetCapabilities       = "get-capabilities"
	ReqSettingsConfiguration = "plugin-settings-get-configuration"
	ReqSettingsValidate      = "validate-plugin-settings"
)

// Settings is the engine-external configuration the boundary may supply.
// It is passed explicitly per call; the engine holds no mutable settings
// state of its own.
type Settings struct {
	// FilePattern overrides the default config-file glob.
	FilePattern string `json:"file_pattern"`
}

// requestConfiguration is the per-request configuration block some
// requests carry; it takes precedence over the plugin-level settings.
type requestConfiguration struct {
	FilePattern string `json:"file_pattern"`
}
