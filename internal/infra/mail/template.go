package mail

import (
	"bytes"
	"html/template"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const resetSubject = "Restablecer Contraseña - Synnapse"

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8" /></head>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Restablecer contraseña</h2>
    <p>Hemos recibido una solicitud para restablecer la contraseña de tu cuenta de Synnapse.</p>
    <p style="text-align: center; margin: 24px 0;">
      <a href="{{.Link}}" style="display: inline-block; padding: 12px 20px; background: #2563eb; color: #ffffff; text-decoration: none; border-radius: 8px; font-weight: bold;">Restablecer contraseña</a>
    </p>
    <p>Este enlace caduca en 1 hora.</p>
    <p style="font-size: 12px; color: #6b7280;">Si no has solicitado este cambio, ignora este correo.</p>
  </div>
</body>
</html>`))

// ResetLink builds the front-end URL carrying token.
func ResetLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
}

func renderResetBody(link string) (string, error) {
	var buf bytes.Buffer
	if err := resetTemplate.Execute(&buf, struct{ Link string }{Link: link}); err != nil {
		return "", errors.Wrap(err, "render reset email")
	}

	return buf.String(), nil
}
