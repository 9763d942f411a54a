package cli

import (
	"github.com/spf13/cobra"
)

// helpTemplate renders the full reference for the root command. Subcommands
// fall through to their generated usage.
const helpTemplate = `{{if .HasParent}}{{with (or .Long .Short)}}{{.}}

{{end}}{{.UsageString}}{{else}}storyboard - Storyboard frame generator backed by Gemini and Imagen

USAGE
  storyboard generate [flags] <scene description...>
  storyboard generate [flags] -            (read description from stdin)
  storyboard serve [flags]

COMMANDS
  generate                               Generate one storyboard frame and save the image
  serve                                  Serve the JSON HTTP API

FLAGS
  Gemini API:
    --api-key <key>                      Gemini API key (default: $GEMINI_API_KEY or $API_KEY)
    --base-url <url>                     API base URL (default: https://generativelanguage.googleapis.com/v1beta)
    --analysis-model <model>             Model for scene analysis (default: gemini-2.5-flash)
    --image-model <model>                Model for frame generation (default: imagen-4.0-generate-001)

  Retry & Transport:
    --max-attempts <int>                 Total attempts per API call (default: 5)
    --initial-delay <duration>           Backoff before the second attempt, doubled per retry (default: 5s)
    --http-timeout <duration>            Timeout for a single HTTP request (default: 1m0s)

  Generate:
    -f, --scene-file <path>              Read the scene description from a file
    -o, --output <path>                  Path for the generated image (default: storyboard.jpg)
    --json                               Print the result as JSON

  Serve:
    --listen <addr>                      Address for the HTTP server (default: :8080)

  Notifications:
    --notify-webhook <url>               POST a JSON event per generation outcome

  Config & Runtime:
    --config <path>                      Path to additional config file
    -v, --verbose                        Enable debug logging

  Help & Version:
    -h, --help                           Show this help text
    --version                            Show version, commit, build date

CONFIGURATION
  Sources, lowest to highest priority: built-in defaults, ./.env, --config file,
  environment variables, command-line flags.
  Variables: GEMINI_API_KEY, API_KEY, GEMINI_BASE_URL, ANALYSIS_MODEL, IMAGE_MODEL,
  MAX_ATTEMPTS, INITIAL_DELAY_MS, HTTP_TIMEOUT_SEC, VERBOSE, LISTEN_ADDR,
  NOTIFY_WEBHOOK

EXIT CODES
  0   Success              Frame generated and saved
  1   Error                Invalid arguments, file not found, misconfiguration
  2   GenerationFailed     The API rejected the request or retries were exhausted
  130 Interrupted          SIGINT or SIGTERM received

EXAMPLES
  # Generate a frame into storyboard.jpg
  storyboard generate "A detective enters a dark, rain-soaked alley"

  # Read the scene from a file and print JSON
  storyboard generate --scene-file scene.txt --json -o frame.jpg

  # Retry faster while testing
  storyboard generate --max-attempts 3 --initial-delay 500ms "A ship in a storm"

  # Serve the HTTP API
  storyboard serve --listen :9090
{{end}}`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}
