// Package media processa e publica as fotos de perfil: decodifica o upload,
// reduz para o tamanho de exibição, converte para webp e grava no bucket.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/BruksfildServices01/salon-agenda/internal/config"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
)

const (
	avatarSize  = 256 // lado do quadrado final, em pixels
	maxUpload   = 5 << 20
	webpQuality = 80
)

type AvatarUploader struct {
	client *s3.Client
	bucket string
}

func NewAvatarUploader(cfg *config.Config) *AvatarUploader {
	opts := s3.Options{
		Region: cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey, cfg.S3SecretKey, "",
		),
	}
	if cfg.S3Endpoint != "" {
		// Endpoint próprio (minio e afins) exige path style.
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}

	return &AvatarUploader{
		client: s3.New(opts),
		bucket: cfg.S3Bucket,
	}
}

// Upload lê a imagem enviada, redimensiona para 256x256 cobrindo o quadrado
// (corte central), codifica em webp e grava em avatars/<userID>.webp.
// O mesmo usuário sempre sobrescreve o próprio arquivo.
func (u *AvatarUploader) Upload(ctx context.Context, userID string, r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxUpload+1))
	if err != nil {
		return "", err
	}
	if len(raw) > maxUpload {
		return "", httperr.ErrBusiness("avatar_too_large")
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", httperr.ErrBusiness("invalid_image")
	}

	dst := squareThumbnail(src, avatarSize)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, &webp.Options{Quality: webpQuality}); err != nil {
		return "", err
	}

	key := fmt.Sprintf("avatars/%s.webp", userID)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(buf.Bytes()),
		ContentType:  aws.String("image/webp"),
		CacheControl: aws.String("public, max-age=86400"),
	})
	if err != nil {
		return "", err
	}

	return key, nil
}

// squareThumbnail corta o maior quadrado central da origem e o reduz para
// size x size com CatmullRom.
func squareThumbnail(src image.Image, size int) image.Image {
	b := src.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	crop := image.Rect(0, 0, side, side).Add(image.Pt(
		b.Min.X+(b.Dx()-side)/2,
		b.Min.Y+(b.Dy()-side)/2,
	))

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)
	return dst
}
