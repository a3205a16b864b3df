package messageservice

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/octacity/octa-bank/internal/domain"
	"github.com/octacity/octa-bank/pkg/randompkg"
)

func TestSend(t *testing.T) {
	sender := domain.User{
		ID:       uuid.NewString(),
		FullName: randompkg.FullName(),
		Role:     domain.RoleUser,
	}

	principal := domain.Principal{UserID: sender.ID, Role: sender.Role}

	testCases := []struct {
		name          string
		receiverID    string
		content       string
		buildStubs    func(repo *MockRepo, users *MockUserGetter)
		checkResponse func(msg domain.Message, err error)
	}{
		{
			name:    "OK",
			content: "hello support",
			buildStubs: func(repo *MockRepo, users *MockUserGetter) {
				users.EXPECT().Get(gomock.Any(), sender.ID).Times(1).Return(sender, nil)
				repo.EXPECT().
					Create(gomock.Any(), gomock.AssignableToTypeOf(domain.CreateMessageParams{})).
					Times(1).
					DoAndReturn(func(_ context.Context, arg domain.CreateMessageParams) (domain.Message, error) {
						require.Equal(t, sender.ID, arg.SenderID)
						require.Equal(t, sender.FullName, arg.SenderName)
						require.Equal(t, domain.RoleUser, arg.SenderRole)
						require.Equal(t, "hello support", arg.Content)
						return domain.Message{ID: 1, SenderID: arg.SenderID, Content: arg.Content}, nil
					})
			},
			checkResponse: func(msg domain.Message, err error) {
				require.NoError(t, err)
				require.Equal(t, "hello support", msg.Content)
			},
		},
		{
			name:    "ContentIsTrimmed",
			content: "  spaced out  ",
			buildStubs: func(repo *MockRepo, users *MockUserGetter) {
				users.EXPECT().Get(gomock.Any(), sender.ID).Times(1).Return(sender, nil)
				repo.EXPECT().
					Create(gomock.Any(), gomock.AssignableToTypeOf(domain.CreateMessageParams{})).
					Times(1).
					DoAndReturn(func(_ context.Context, arg domain.CreateMessageParams) (domain.Message, error) {
						require.Equal(t, "spaced out", arg.Content)
						return domain.Message{ID: 2, Content: arg.Content}, nil
					})
			},
			checkResponse: func(msg domain.Message, err error) {
				require.NoError(t, err)
			},
		},
		{
			name:    "EmptyContent",
			content: "   ",
			buildStubs: func(repo *MockRepo, users *MockUserGetter) {
				users.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(msg domain.Message, err error) {
				require.Empty(t, msg)
				require.EqualError(t, err, domain.ErrEmptyMessageContent.Error())
			},
		},
		{
			name:       "UnknownSender",
			content:    "hello",
			receiverID: "",
			buildStubs: func(repo *MockRepo, users *MockUserGetter) {
				users.EXPECT().Get(gomock.Any(), sender.ID).Times(1).
					Return(domain.User{}, domain.ErrUserNotFound)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(msg domain.Message, err error) {
				require.EqualError(t, err, domain.ErrUserNotFound.Error())
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			users := NewMockUserGetter(ctrl)
			service := New(repo, users)

			tc.buildStubs(repo, users)

			msg, err := service.Send(context.Background(), principal, tc.receiverID, tc.content)
			tc.checkResponse(msg, err)
		})
	}
}

func TestListThread(t *testing.T) {
	owner := uuid.NewString()
	other := uuid.NewString()

	testCases := []struct {
		name       string
		principal  domain.Principal
		userID     string
		buildStubs func(repo *MockRepo)
	}{
		{
			name:      "UserAlwaysGetsOwnThread",
			principal: domain.Principal{UserID: owner, Role: domain.RoleUser},
			userID:    other,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().ListThread(gomock.Any(), owner).Times(1).Return([]domain.Message{}, nil)
			},
		},
		{
			name:      "AdminPicksThread",
			principal: domain.Principal{UserID: owner, Role: domain.RoleAdmin},
			userID:    other,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().ListThread(gomock.Any(), other).Times(1).Return([]domain.Message{}, nil)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			users := NewMockUserGetter(ctrl)
			service := New(repo, users)

			tc.buildStubs(repo)

			_, err := service.ListThread(context.Background(), tc.principal, tc.userID)
			require.NoError(t, err)
		})
	}
}

func TestMarkRead(t *testing.T) {
	admin := uuid.NewString()
	user := uuid.NewString()

	testCases := []struct {
		name       string
		principal  domain.Principal
		userID     string
		buildStubs func(repo *MockRepo)
		want       int64
	}{
		{
			name:      "AdminFlipsUserSideOfThread",
			principal: domain.Principal{UserID: admin, Role: domain.RoleAdmin},
			userID:    user,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().MarkRead(gomock.Any(), user, domain.AdminReadingUserMessages).Times(1).
					Return(int64(3), nil)
			},
			want: 3,
		},
		{
			name:      "UserFlipsAdminSideOfOwnThread",
			principal: domain.Principal{UserID: user, Role: domain.RoleUser},
			userID:    "",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().MarkRead(gomock.Any(), user, domain.UserReadingAdminMessages).Times(1).
					Return(int64(2), nil)
			},
			want: 2,
		},
		{
			name:      "UserCannotTargetAnotherThread",
			principal: domain.Principal{UserID: user, Role: domain.RoleUser},
			userID:    admin,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().MarkRead(gomock.Any(), user, domain.UserReadingAdminMessages).Times(1).
					Return(int64(0), nil)
			},
			want: 0,
		},
		{
			name:      "AdminWithoutThreadFlipsOwnAdminSide",
			principal: domain.Principal{UserID: admin, Role: domain.RoleAdmin},
			userID:    "",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().MarkRead(gomock.Any(), admin, domain.UserReadingAdminMessages).Times(1).
					Return(int64(0), nil)
			},
			want: 0,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			users := NewMockUserGetter(ctrl)
			service := New(repo, users)

			tc.buildStubs(repo)

			n, err := service.MarkRead(context.Background(), tc.principal, tc.userID)
			require.NoError(t, err)
			require.Equal(t, tc.want, n)
		})
	}
}

func TestListThreadSummaries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	users := NewMockUserGetter(ctrl)
	service := New(repo, users)

	repo.EXPECT().ListThreadSummaries(gomock.Any()).Times(0)

	_, err := service.ListThreadSummaries(context.Background(),
		domain.Principal{UserID: uuid.NewString(), Role: domain.RoleUser})
	require.EqualError(t, err, domain.ErrAdminRequired.Error())
}
