package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/devlingo/devlingo-backend/internal/logger"
	"github.com/devlingo/devlingo-backend/internal/utils"
)

const (
	avatarRenderSize = 512
	avatarFinalSize  = 256
)

// AvatarService renders a fallback initials avatar for learners whose
// identity token carries no picture claim. Files land in a local media dir
// served statically by the router.
type AvatarService interface {
	EnsureAvatar(ctx context.Context, userID, displayName string) (string, error)
}

type avatarService struct {
	log      *logger.Logger
	mediaDir string
	urlBase  string
	bgColors []color.NRGBA
	fontFace font.Face
}

func NewAvatarService(baseLog *logger.Logger) (AvatarService, error) {
	serviceLog := baseLog.With("service", "AvatarService")

	mediaDir := utils.GetEnv("AVATAR_MEDIA_DIR", "./media/avatars", baseLog)
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar media dir: %w", err)
	}

	parsed, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse avatar font: %w", err)
	}
	face := truetype.NewFace(parsed, &truetype.Options{Size: 220})

	return &avatarService{
		log:      serviceLog,
		mediaDir: mediaDir,
		urlBase:  "/media/avatars",
		bgColors: []color.NRGBA{
			{R: 0x58, G: 0xCC, B: 0x02, A: 0xFF},
			{R: 0x1C, G: 0xB0, B: 0xF6, A: 0xFF},
			{R: 0xFF, G: 0x96, B: 0x00, A: 0xFF},
			{R: 0xCE, G: 0x82, B: 0xFF, A: 0xFF},
			{R: 0xFF, G: 0x4B, B: 0x4B, A: 0xFF},
			{R: 0x2B, G: 0x70, B: 0xC9, A: 0xFF},
		},
		fontFace: face,
	}, nil
}

func (as *avatarService) EnsureAvatar(ctx context.Context, userID, displayName string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("missing user id")
	}

	img, err := as.render(userID, initials(displayName))
	if err != nil {
		return "", err
	}

	name := uuid.New().String() + ".png"
	path := filepath.Join(as.mediaDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create avatar file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode avatar: %w", err)
	}

	as.log.Debug("Rendered fallback avatar", "user_id", userID, "file", name)
	return as.urlBase + "/" + name, nil
}

func (as *avatarService) render(userID, text string) (image.Image, error) {
	bg := as.bgColors[colorIndex(userID, len(as.bgColors))]

	dc := gg.NewContext(avatarRenderSize, avatarRenderSize)
	dc.SetColor(bg)
	dc.DrawCircle(avatarRenderSize/2, avatarRenderSize/2, avatarRenderSize/2)
	dc.Fill()

	dc.SetFontFace(as.fontFace)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(text, avatarRenderSize/2, avatarRenderSize/2, 0.5, 0.5)

	// Render big, scale down for smoother edges.
	out := image.NewNRGBA(image.Rect(0, 0, avatarFinalSize, avatarFinalSize))
	draw.CatmullRom.Scale(out, out.Bounds(), dc.Image(), dc.Image().Bounds(), draw.Over, nil)
	return out, nil
}

func initials(displayName string) string {
	fields := strings.Fields(strings.TrimSpace(displayName))
	switch {
	case len(fields) >= 2:
		return strings.ToUpper(firstRune(fields[0]) + firstRune(fields[1]))
	case len(fields) == 1:
		return strings.ToUpper(firstRune(fields[0]))
	default:
		return "U"
	}
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

func colorIndex(userID string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(n))
}
