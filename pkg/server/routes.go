package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zutoData/pindata-sub001/pkg/api"
	"github.com/zutoData/pindata-sub001/pkg/contract"
	"github.com/zutoData/pindata-sub001/pkg/service"
)

func registerRoutes(app *fiber.App, svc *service.VersioningService, parser contract.HTTPRequestParser) {
	app.Post("/datasets", func(c *fiber.Ctx) error {
		input := &api.CreateDatasetRequest{}
		if err := parser.ParseBody(c, input); err != nil {
			return err
		}

		dataset, cErr := svc.CreateDataset(input)
		if cErr != nil {
			return cErr
		}
		return c.Status(fiber.StatusCreated).JSON(dataset)
	})

	app.Get("/datasets", func(c *fiber.Ctx) error {
		response, cErr := svc.ListDatasets()
		if cErr != nil {
			return cErr
		}
		return c.JSON(response)
	})

	app.Get("/datasets/:datasetId", func(c *fiber.Ctx) error {
		dataset, cErr := svc.GetDataset(c.Params("datasetId"))
		if cErr != nil {
			return cErr
		}
		return c.JSON(dataset)
	})

	app.Get("/datasets/:datasetId/versions", func(c *fiber.Ctx) error {
		response, cErr := svc.GetVersionTree(c.Params("datasetId"))
		if cErr != nil {
			return cErr
		}
		return c.JSON(response)
	})

	app.Post("/datasets/:datasetId/versions", func(c *fiber.Ctx) error {
		input := &api.CreateVersionRequest{}
		if err := parser.ParseBody(c, input); err != nil {
			return err
		}

		version, cErr := svc.CreateVersion(c.Context(), c.Params("datasetId"), input)
		if cErr != nil {
			return cErr
		}
		return c.Status(fiber.StatusCreated).JSON(version)
	})

	app.Get("/datasets/:datasetId/files", func(c *fiber.Ctx) error {
		query := &api.ListFilesQuery{}
		if err := parser.ParseQuery(c, query); err != nil {
			return err
		}

		response, cErr := svc.ListDatasetFiles(c.Params("datasetId"), query)
		if cErr != nil {
			return cErr
		}
		return c.JSON(response)
	})

	// Registered before /versions/:versionId so "diff" is not captured as
	// a version id.
	app.Get("/versions/diff", func(c *fiber.Ctx) error {
		query := &api.DiffQuery{}
		if err := parser.ParseQuery(c, query); err != nil {
			return err
		}

		response, cErr := svc.DiffVersions(query.Version1, query.Version2)
		if cErr != nil {
			return cErr
		}
		return c.JSON(response)
	})

	app.Get("/versions/:versionId", func(c *fiber.Ctx) error {
		version, cErr := svc.GetVersion(c.Params("versionId"))
		if cErr != nil {
			return cErr
		}
		return c.JSON(version)
	})

	app.Post("/versions/:versionId/clone", func(c *fiber.Ctx) error {
		input := &api.CloneVersionRequest{}
		if err := parser.ParseBody(c, input); err != nil {
			return err
		}

		version, cErr := svc.CloneVersion(c.Params("versionId"), input)
		if cErr != nil {
			return cErr
		}
		return c.Status(fiber.StatusCreated).JSON(version)
	})

	app.Post("/versions/:versionId/default", func(c *fiber.Ctx) error {
		version, cErr := svc.SetDefaultVersion(c.Params("versionId"))
		if cErr != nil {
			return cErr
		}
		return c.JSON(version)
	})

	app.Post("/versions/:versionId/publish", func(c *fiber.Ctx) error {
		version, cErr := svc.PublishVersion(c.Params("versionId"))
		if cErr != nil {
			return cErr
		}
		return c.JSON(version)
	})

	app.Post("/versions/:versionId/deprecate", func(c *fiber.Ctx) error {
		version, cErr := svc.DeprecateVersion(c.Params("versionId"))
		if cErr != nil {
			return cErr
		}
		return c.JSON(version)
	})

	app.Get("/versions/:versionId/files", func(c *fiber.Ctx) error {
		query := &api.ListFilesQuery{}
		if err := parser.ParseQuery(c, query); err != nil {
			return err
		}

		response, cErr := svc.ListVersionFiles(c.Params("versionId"), query)
		if cErr != nil {
			return cErr
		}
		return c.JSON(response)
	})

	app.Post("/versions/:versionId/files/attach", func(c *fiber.Ctx) error {
		input := &api.AttachFileRequest{}
		if err := parser.ParseBody(c, input); err != nil {
			return err
		}

		file, cErr := svc.AttachExistingFile(c.Context(), c.Params("versionId"), input)
		if cErr != nil {
			return cErr
		}
		return c.Status(fiber.StatusCreated).JSON(file)
	})

	app.Post("/versions/:versionId/files/batch", func(c *fiber.Ctx) error {
		input := &api.BatchFileOpRequest{}
		if err := parser.ParseBody(c, input); err != nil {
			return err
		}

		response, cErr := svc.BatchFileOp(c.Params("versionId"), input)
		if cErr != nil {
			return cErr
		}
		return c.JSON(response)
	})

	app.Post("/admin/blobs/sweep", func(c *fiber.Ctx) error {
		response, cErr := svc.SweepUnreferencedBlobs(c.Context())
		if cErr != nil {
			return cErr
		}
		return c.JSON(response)
	})
}
