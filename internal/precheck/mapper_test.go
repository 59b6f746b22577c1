package precheck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/registry/mocks"
)

func TestIdentityMapper(t *testing.T) {
	ctx := context.Background()

	t.Run("empty input skips the external call", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockIdentityClient(ctrl)
		// No EXPECT: any call would fail the test.

		resolution, err := NewIdentityMapper(client).Resolve(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, resolution.Resolved)
		assert.Empty(t, resolution.Failed)
	})

	t.Run("partitions resolved and failed entries", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockIdentityClient(ctrl)
		client.EXPECT().
			Resolve(gomock.Any(), []string{"199001012391", "198001011234"}).
			Return(map[string]string{"199001012391": "party-1"}, nil)

		resolution, err := NewIdentityMapper(client).Resolve(ctx, []string{"199001012391", "198001011234"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"199001012391": "party-1"}, resolution.Resolved)
		assert.Equal(t, map[string]string{"198001011234": domain.ReasonPartyIDNotFound}, resolution.Failed)
	})

	t.Run("registry failure propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockIdentityClient(ctrl)
		client.EXPECT().
			Resolve(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("registry down"))

		_, err := NewIdentityMapper(client).Resolve(ctx, []string{"199001012391"})
		require.Error(t, err)
	})
}
