package rates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type storageMock struct {
	mock.Mock
}

func (m *storageMock) NewRate(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *storageMock) UpdateRateValue(ctx context.Context, name string, val float64) error {
	return m.Called(ctx, name, val).Error(0)
}

type providerMock struct {
	mock.Mock
}

func (m *providerMock) GetRates(ctx context.Context, base string, relatives []string) (map[string]float64, error) {
	args := m.Called(ctx, base, relatives)
	rates, _ := args.Get(0).(map[string]float64)
	return rates, args.Error(1)
}

type reportsMock struct {
	mock.Mock
}

func (m *reportsMock) Invalidate() error {
	return m.Called().Error(0)
}

type configStub struct {
	base  string
	delay int64
}

func (c configStub) BaseCurrency() string       { return c.base }
func (c configStub) Currencies() []string       { return []string{"USD", "EUR", "RUB"} }
func (c configStub) PullingDelayMinutes() int64 { return c.delay }

func Test_NewPuller_SeedsRates(t *testing.T) {
	s := &storageMock{}
	for _, c := range []string{"USD", "EUR", "RUB"} {
		s.On("NewRate", mock.Anything, c).Return(nil).Once()
	}
	s.On("UpdateRateValue", mock.Anything, "EUR", 1.0).Return(nil).Once()

	_, err := NewPuller(context.Background(), s, &providerMock{}, nil, configStub{base: "EUR", delay: 1})
	require.NoError(t, err)
	s.AssertExpectations(t)
}

func Test_NewPuller_UnknownBase(t *testing.T) {
	_, err := NewPuller(context.Background(), &storageMock{}, &providerMock{}, nil, configStub{base: "JPY"})
	assert.Error(t, err)
}

func Test_PullOnce(t *testing.T) {
	s := &storageMock{}
	s.On("NewRate", mock.Anything, mock.Anything).Return(nil)
	s.On("UpdateRateValue", mock.Anything, "USD", 1.0).Return(nil)
	s.On("UpdateRateValue", mock.Anything, "EUR", 0.9).Return(nil).Once()
	s.On("UpdateRateValue", mock.Anything, "RUB", 90.0).Return(errors.New("disk full")).Once()

	p := &providerMock{}
	p.On("GetRates", mock.Anything, "USD", []string{"EUR", "RUB"}).
		Return(map[string]float64{"EUR": 0.9, "RUB": 90, "XXX": 1}, nil).Once()

	puller, err := NewPuller(context.Background(), s, p, nil, configStub{base: "USD", delay: 1})
	require.NoError(t, err)
	require.NoError(t, puller.PullOnce(context.Background()))
	s.AssertExpectations(t)
	p.AssertExpectations(t)
}

func Test_PullOnce_InvalidatesReports(t *testing.T) {
	s := &storageMock{}
	s.On("NewRate", mock.Anything, mock.Anything).Return(nil)
	s.On("UpdateRateValue", mock.Anything, "USD", 1.0).Return(nil)
	s.On("UpdateRateValue", mock.Anything, "EUR", 0.9).Return(nil)
	s.On("UpdateRateValue", mock.Anything, "RUB", 90.0).Return(errors.New("disk full"))

	p := &providerMock{}
	p.On("GetRates", mock.Anything, "USD", []string{"EUR", "RUB"}).
		Return(map[string]float64{"EUR": 0.9, "RUB": 90}, nil).Once()
	p.On("GetRates", mock.Anything, "USD", []string{"EUR", "RUB"}).
		Return(map[string]float64{"RUB": 90}, nil).Once()

	r := &reportsMock{}
	r.On("Invalidate").Return(nil).Once()

	puller, err := NewPuller(context.Background(), s, p, r, configStub{base: "USD", delay: 1})
	require.NoError(t, err)
	r.AssertNotCalled(t, "Invalidate")

	require.NoError(t, puller.PullOnce(context.Background()))
	r.AssertNumberOfCalls(t, "Invalidate", 1)

	// nothing saved, cached reports stay
	require.NoError(t, puller.PullOnce(context.Background()))
	r.AssertNumberOfCalls(t, "Invalidate", 1)
}

func Test_PullOnce_ProviderError(t *testing.T) {
	s := &storageMock{}
	s.On("NewRate", mock.Anything, mock.Anything).Return(nil)
	s.On("UpdateRateValue", mock.Anything, "USD", 1.0).Return(nil)
	p := &providerMock{}
	p.On("GetRates", mock.Anything, "USD", mock.Anything).Return(nil, errors.New("offline"))

	puller, err := NewPuller(context.Background(), s, p, nil, configStub{base: "USD", delay: 1})
	require.NoError(t, err)
	assert.Error(t, puller.PullOnce(context.Background()))
}

func Test_Pull_StopsOnCancel(t *testing.T) {
	s := &storageMock{}
	s.On("NewRate", mock.Anything, mock.Anything).Return(nil)
	s.On("UpdateRateValue", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	p := &providerMock{}
	pulled := make(chan struct{}, 1)
	p.On("GetRates", mock.Anything, "USD", mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case pulled <- struct{}{}:
			default:
			}
		}).
		Return(map[string]float64{}, nil)

	puller, err := NewPuller(context.Background(), s, p, nil, configStub{base: "USD", delay: 60})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		puller.Pull(ctx)
		close(done)
	}()

	select {
	case <-pulled:
	case <-time.After(5 * time.Second):
		t.Fatal("rates were not pulled immediately")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("puller did not stop")
	}
}
