package haptics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alkime/knobs/pkg/collections"
	"github.com/gen2brain/malgo"
)

// DeviceConfig selects the playback format. Zero fields take defaults.
type DeviceConfig struct {
	SampleRate int
	Channels   int
}

func (c DeviceConfig) withDefaults() DeviceConfig {
	if c.SampleRate <= 0 {
		c.SampleRate = 44100
	}

	if c.Channels <= 0 {
		c.Channels = 1
	}

	return c
}

// Audio plays a click on the default playback device for each feedback
// event. The device is opened once and started lazily on the first Prepare
// or Emit.
type Audio struct {
	conf   DeviceConfig
	logger *slog.Logger
	queue  *SampleQueue

	mu       sync.Mutex
	mgCtx    *malgo.AllocatedContext
	mgDevice *malgo.Device
	scratch  []int16
}

func NewAudio(conf DeviceConfig, logger *slog.Logger) *Audio {
	conf = conf.withDefaults()

	return &Audio{
		conf:   conf,
		logger: logger,
		// half a second of backlog at most
		queue: NewSampleQueue(conf.SampleRate / 2),
	}
}

// Open allocates the playback device.
func (a *Audio) Open(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mgDevice != nil {
		return nil
	}

	mgCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	devCnf := malgo.DefaultDeviceConfig(malgo.Playback)
	devCnf.Playback.Format = malgo.FormatS16
	devCnf.Playback.Channels = uint32(a.conf.Channels)
	devCnf.SampleRate = uint32(a.conf.SampleRate)

	callbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, frameCount uint32) {
			a.fill(out, int(frameCount))
		},
	}

	mgDevice, err := malgo.InitDevice(mgCtx.Context, devCnf, callbacks)
	if err != nil {
		uninitializeContext(mgCtx)
		return fmt.Errorf("failed to initialize malgo playback device: %w", err)
	}

	a.mgCtx = mgCtx
	a.mgDevice = mgDevice

	return nil
}

// fill runs on the audio thread.
func (a *Audio) fill(out []byte, frames int) {
	clear(out)

	if cap(a.scratch) < frames {
		a.scratch = make([]int16, frames)
	}

	mono := a.scratch[:frames]
	n := a.queue.Read(mono)
	if n == 0 {
		return
	}

	if a.conf.Channels == 1 {
		Int16ToBytes(out, mono[:n])
		return
	}

	frame := make([]int16, a.conf.Channels)
	for i := range n {
		for c := range frame {
			frame[c] = mono[i]
		}
		Int16ToBytes(out[i*2*len(frame):], frame)
	}
}

func (a *Audio) start() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mgDevice == nil || a.mgDevice.IsStarted() {
		return
	}

	if err := a.mgDevice.Start(); err != nil {
		a.logger.Warn("failed to start playback device", "error", err)
	}
}

func (a *Audio) Prepare() {
	a.start()
}

func (a *Audio) Emit(intensity float64) {
	a.start()
	a.queue.Write(Click(intensity, a.conf.SampleRate))
}

// Close stops and frees the device. Closing an unopened sink is a no-op.
func (a *Audio) Close(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mgDevice == nil {
		return nil
	}

	var err error
	if a.mgDevice.IsStarted() {
		err = a.mgDevice.Stop()
	}

	a.mgDevice.Uninit()
	uninitializeContext(a.mgCtx)
	a.mgDevice = nil
	a.mgCtx = nil

	if err != nil {
		return fmt.Errorf("failed to stop playback device: %w", err)
	}

	return nil
}

// DeviceInfo describes a playback device.
type DeviceInfo struct {
	Name      string
	IsDefault bool
	Formats   []string
}

// PlaybackDevices lists the playback devices the default backend can see.
func PlaybackDevices(context.Context) ([]DeviceInfo, error) {
	devCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	defer uninitializeContext(devCtx)

	devices, err := devCtx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("failed to get playback devices: %w", err)
	}

	return collections.Apply(devices, toDeviceInfo), nil
}

func toDeviceInfo(mdi malgo.DeviceInfo) DeviceInfo {
	formats := make([]string, len(mdi.Formats))
	for i, mf := range mdi.Formats {
		formats[i] = fmt.Sprintf("%d-byte samples, %d channels, %d Hz",
			malgo.SampleSizeInBytes(mf.Format), mf.Channels, mf.SampleRate)
	}

	return DeviceInfo{
		Name:      mdi.Name(),
		IsDefault: mdi.IsDefault != 0,
		Formats:   formats,
	}
}

func uninitializeContext(mgCtx *malgo.AllocatedContext) {
	if mgCtx == nil {
		return
	}

	if err := mgCtx.Uninit(); err != nil {
		slog.Error("failed to uninitialize malgo context", "error", err)
	}
	mgCtx.Free()
}
