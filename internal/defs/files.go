package defs

// Project-level file names written at the project root.
const (
	// ManagePy is the Django management entry point.
	ManagePy = "manage.py"

	// GitIgnore is the generated ignore file.
	GitIgnore = ".gitignore"

	// ReadmeMD is the generated project readme.
	ReadmeMD = "README.md"

	// RequirementsTxt is the pip requirements file flushed at the end of generation.
	RequirementsTxt = "requirements.txt"

	// DockerIgnore is the docker build-context ignore file.
	DockerIgnore = ".dockerignore"

	// DockerCompose is the compose file written by the docker service.
	DockerCompose = "docker-compose.yml"
)

// Python module file names.
const (
	InitPy        = "__init__.py"
	AdminPy       = "admin.py"
	AppsPy        = "apps.py"
	ModelsPy      = "models.py"
	ViewsPy       = "views.py"
	UrlsPy        = "urls.py"
	SerializersPy = "serializers.py"
	APIUrlsPy     = "api_urls.py"
	FormsPy       = "forms.py"
	SignalsPy     = "signals.py"
	ModelViewsPy  = "model_views.py"
	WsgiPy        = "wsgi.py"
	AsgiPy        = "asgi.py"
	CeleryPy      = "celery.py"
	RouterPy      = "router.py"
	TestModelsPy  = "test_models.py"
)

// Directory names created inside the project and inside every app.
const (
	SettingsDir   = "settings"
	MigrationsDir = "migrations"
	TestsDir      = "tests"
	DockerDir     = "docker"
	StaticDir     = "static"
	MediaDir      = "media"
	TemplatesDir  = "templates"
)

// Settings module file names under <core>/settings/.
const (
	BaseSettingsPy = "base.py"
	DevSettingsPy  = "dev.py"
	ProdSettingsPy = "prod.py"
)

// RequiredFolders lists the folders every generated project starts with.
var RequiredFolders = []string{StaticDir, MediaDir, TemplatesDir}

// DefaultCorePath is the core location used until Model.SetCoreLocation is called.
const DefaultCorePath = "core"

// DefaultProjectName is used when the CLI receives no project name.
const DefaultProjectName = "myproject"
