package qrcode

import (
	"net/url"
	"strings"

	"citysim/config"
	"citysim/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const (
	depositScheme  = "ton"
	depositHost    = "transfer"
	depositTextKey = "text"
	depositPrefix  = "deposit:"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	receiver             string
}

// NewQRCodeService creates a new QR code service instance. receiver is the
// wallet that collects deposits.
func NewQRCodeService(size int, errorCorrectionLevel, receiver string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		receiver:             receiver,
	}
}

// New builds the service from configuration, falling back to 256px at
// medium recovery.
func New(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return NewQRCodeService(256, "M", cfg.Wallet.ReceiverAddress)
	}

	return NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.Wallet.ReceiverAddress)
}

// DepositURI is a ton://transfer link whose comment names the player.
func (s *qrcodeService) DepositURI(playerID uuid.UUID) string {
	u := url.URL{
		Scheme:   depositScheme,
		Host:     depositHost,
		Path:     "/" + s.receiver,
		RawQuery: url.Values{depositTextKey: {depositPrefix + playerID.String()}}.Encode(),
	}

	return u.String()
}

// GenerateDepositQR renders the deposit link as a PNG.
func (s *qrcodeService) GenerateDepositQR(playerID uuid.UUID) ([]byte, error) {
	if s.receiver == "" {
		return nil, errors.New("deposit receiver address is not configured")
	}

	qrCode, err := qrcode.New(s.DepositURI(playerID), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseDepositURI returns the player a deposit link credits.
func (s *qrcodeService) ParseDepositURI(uri string) (uuid.UUID, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse deposit uri")
	}

	if u.Scheme != depositScheme || u.Host != depositHost {
		return uuid.Nil, errors.Errorf("invalid deposit uri: %s", uri)
	}

	text := u.Query().Get(depositTextKey)
	if !strings.HasPrefix(text, depositPrefix) {
		return uuid.Nil, errors.Errorf("deposit uri carries no player: %q", text)
	}

	playerID, err := uuid.Parse(strings.TrimPrefix(text, depositPrefix))
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse player ID")
	}

	return playerID, nil
}
