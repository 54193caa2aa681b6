package tests

import (
	"log"
	"os"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/fundi/apps/api/echo"
	"github.com/trezcool/fundi/core"
	"github.com/trezcool/fundi/core/directory"
	"github.com/trezcool/fundi/core/draw"
	"github.com/trezcool/fundi/core/project"
	"github.com/trezcool/fundi/core/schedule"
	"github.com/trezcool/fundi/core/task"
	"github.com/trezcool/fundi/core/user"
	appfs "github.com/trezcool/fundi/fs"
	emailsvc "github.com/trezcool/fundi/services/email"
	logsvc "github.com/trezcool/fundi/services/logger"
	dummydb "github.com/trezcool/fundi/storage/database/dummy"
)

var (
	conf *core.Config
	db   *dummydb.DB
	app  echoapi.Server

	usrRepo   user.Repository
	prjRepo   project.Repository
	schedRepo schedule.Repository
	taskRepo  task.Repository
	dirRepo   directory.Repository
	drawRepo  draw.Repository
)

func TestMain(m *testing.M) {
	_ = os.Setenv("ENV", "TEST")
	conf = core.NewConfig()
	conf.Debug = false // keep error payloads in their production shape

	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), conf)
	logger.Enable(false)

	// set up DB & repos
	var err error
	db, err = dummydb.Open()
	if err != nil {
		log.Fatalf("dummydb.Open(): %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)
	prjRepo = dummydb.NewProjectRepository(db)
	schedRepo = dummydb.NewScheduleRepository(db)
	taskRepo = dummydb.NewTaskRepository(db)
	dirRepo = dummydb.NewDirectoryRepository(db)
	drawRepo = dummydb.NewDrawRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewServiceMock(usrRepo, mailSvc, conf)
	prjSvc := project.NewService(prjRepo)
	schedSvc := schedule.NewService(db, schedRepo, prjSvc)
	taskSvc := task.NewService(taskRepo)
	dirSvc := directory.NewService(dirRepo)
	drawSvc := draw.NewService(db, drawRepo, prjSvc)

	// set up validation & templates
	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	core.ParseEmailTemplates(appfs.FS, conf, logger)
	user.LoadCommonPasswords(logger)

	// set up server
	app = echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:           conf,
			Logger:         logger,
			UserSvc:        usrSvc,
			ProjectSvc:     prjSvc,
			ScheduleSvc:    schedSvc,
			TaskSvc:        taskSvc,
			DirectorySvc:   dirSvc,
			DrawSvc:        drawSvc,
			Validate:       validate,
			Translator:     translator,
			DisableReqLogs: true,
		},
	)

	os.Exit(m.Run())
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
