package memory

import (
	"context"
	"slices"

	"citysim/internal/domain/entity"
	"citysim/internal/domain/repository"

	"github.com/google/uuid"
)

type deviceRepository struct {
	access accessor
}

func (r *deviceRepository) CreateDevice(_ context.Context, device *entity.PlayerDevice) error {
	return r.access(func(s *state) error {
		for _, d := range s.devices {
			if d.PlayerID == device.PlayerID && d.DeviceID == device.DeviceID {
				return repository.ErrDuplicateDevice
			}
		}
		if device.ID == uuid.Nil {
			device.ID = uuid.New()
		}
		stored := *device
		keep(s, s.devices, device.ID, nil)
		s.devices[device.ID] = &stored

		return nil
	})
}

func (r *deviceRepository) FindDeviceByID(_ context.Context, id uuid.UUID) (*entity.PlayerDevice, error) {
	var out *entity.PlayerDevice
	err := r.access(func(s *state) error {
		d, ok := s.devices[id]
		if !ok {
			return repository.ErrDeviceNotFound
		}
		c := *d
		out = &c

		return nil
	})

	return out, err
}

func (r *deviceRepository) FindDevicesByPlayer(_ context.Context, playerID uuid.UUID) ([]*entity.PlayerDevice, error) {
	return r.collect(func(d *entity.PlayerDevice) bool { return d.PlayerID == playerID })
}

func (r *deviceRepository) FindActiveDevicesByPlayer(_ context.Context, playerID uuid.UUID) ([]*entity.PlayerDevice, error) {
	return r.collect(func(d *entity.PlayerDevice) bool { return d.PlayerID == playerID && d.IsActive })
}

func (r *deviceRepository) UpdateFCMToken(_ context.Context, deviceID uuid.UUID, fcmToken string) error {
	return r.access(func(s *state) error {
		d, ok := s.devices[deviceID]
		if !ok {
			return repository.ErrDeviceNotFound
		}
		keep(s, s.devices, deviceID, copyDevice)
		d.FCMToken = fcmToken
		d.IsActive = true

		return nil
	})
}

func (r *deviceRepository) DeactivateDevice(_ context.Context, id uuid.UUID) error {
	return r.access(func(s *state) error {
		d, ok := s.devices[id]
		if !ok {
			return repository.ErrDeviceNotFound
		}
		keep(s, s.devices, id, copyDevice)
		d.IsActive = false

		return nil
	})
}

func (r *deviceRepository) DeactivateByTokens(_ context.Context, tokens []string) (int64, error) {
	var n int64
	err := r.access(func(s *state) error {
		for id, d := range s.devices {
			if d.IsActive && slices.Contains(tokens, d.FCMToken) {
				keep(s, s.devices, id, copyDevice)
				d.IsActive = false
				n++
			}
		}

		return nil
	})

	return n, err
}

func (r *deviceRepository) DeleteDevice(_ context.Context, id uuid.UUID) error {
	return r.access(func(s *state) error {
		if _, ok := s.devices[id]; !ok {
			return repository.ErrDeviceNotFound
		}
		keep(s, s.devices, id, nil)
		delete(s.devices, id)

		return nil
	})
}

func (r *deviceRepository) collect(match func(d *entity.PlayerDevice) bool) ([]*entity.PlayerDevice, error) {
	var out []*entity.PlayerDevice
	err := r.access(func(s *state) error {
		for _, d := range s.devices {
			if match(d) {
				c := *d
				out = append(out, &c)
			}
		}

		return nil
	})
	slices.SortFunc(out, func(a, b *entity.PlayerDevice) int { return b.CreatedAt.Compare(a.CreatedAt) })

	return out, err
}
